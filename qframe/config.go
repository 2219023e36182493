// Copyright 2022 RelationalAI, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Profile holds the settings of one section of the config file. Command
// flags given explicitly take precedence.
type Profile struct {
	DSN        string `ini:"dsn"`
	Driver     string `ini:"driver"`
	Index      string `ini:"index"`
	Format     string `ini:"format"`
	RAIConfig  string `ini:"rai_config"`
	RAIProfile string `ini:"rai_profile"`
	Engine     string `ini:"engine"`
}

func expandUser(fname string) (string, error) {
	if fname != "~" && !strings.HasPrefix(fname, "~/") {
		return fname, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(fname, "~")), nil
}

// Loads the named profile from the config file fname. A missing file is an
// empty profile, a missing section is an error.
func loadProfile(fname, name string) (*Profile, error) {
	fname, err := expandUser(fname)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(fname); errors.Is(err, fs.ErrNotExist) {
		return &Profile{}, nil
	}
	f, err := ini.Load(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fname)
	}
	sec, err := f.GetSection(name)
	if err != nil {
		return nil, errors.Errorf("config profile '%s' not found in %s", name, fname)
	}
	var p Profile
	if err := sec.MapTo(&p); err != nil {
		return nil, errors.Wrapf(err, "profile '%s'", name)
	}
	return &p, nil
}
