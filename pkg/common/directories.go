// Copyright © 2024 Okami6997
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const FilePermissions = 0755

var (
	Directory = filepath.Join(xdg.Home, "analyzer")

	// OutputDirectory is where analysis tables land when no explicit
	// output path is given.
	OutputDirectory = filepath.Join(Directory, "output")

	// ConfigFile is the default run-configuration location.
	ConfigFile = filepath.Join(Directory, "config.yaml")
)

func TryMkdir(dir string) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		_ = os.Mkdir(dir, FilePermissions)
	}
}

func init() {
	TryMkdir(Directory)
	TryMkdir(OutputDirectory)
}
