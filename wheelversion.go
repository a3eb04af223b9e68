// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The change-wheel-version tool rewrites a Python wheel with a new version,
// local version label or platform tag.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/google/wheelversion/wheel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const long = `Rewrite a Python wheel with a new version.

The new wheel is written next to the old one and its path is printed to
stdout. Every flag can also be set through the environment with the
WHEELVERSION_ prefix, e.g. WHEELVERSION_LOCAL_VERSION. SOURCE_DATE_EPOCH sets
the timestamps of the archive entries.

Examples:
  change-wheel-version --local-version cu118 torch-2.0.0-cp311-cp311-linux_x86_64.whl
  change-wheel-version --version 2.0.0 --delete-old-wheel pypyp-1.0.0-py3-none-any.whl
  change-wheel-version --platform-tag cp311-cp311-manylinux_2_17_x86_64 pkg-1.0-py3-none-any.whl`

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WHEELVERSION")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "change-wheel-version [flags] WHEEL",
		Short:        "Change the version of a Python wheel",
		Long:         long,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args[0])
		},
	}
	f := cmd.Flags()
	f.String("version", "", "new version, without a local version label")
	f.String("local-version", "", "new local version label, empty to remove it")
	f.String("platform-tag", "", "new platform tag, e.g. cp311-cp311-manylinux_2_17_x86_64")
	f.Bool("allow-same-version", false, "succeed without writing a wheel when the version does not change")
	f.Bool("delete-old-wheel", false, "delete the input wheel once the new one is written")
	f.BoolP("verbose", "v", false, "print verbose logs to stderr")
	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}
	if err := v.BindEnv("source-date-epoch", "SOURCE_DATE_EPOCH"); err != nil {
		panic(err)
	}
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, path string) error {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "change-wheel-version",
	})
	if v.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	c := wheel.Changer{
		Version:          v.GetString("version"),
		PlatformTag:      v.GetString("platform-tag"),
		AllowSameVersion: v.GetBool("allow-same-version"),
		Logf:             logger.Debugf,
	}
	// An explicitly empty local version removes the label.
	if v.IsSet("local-version") {
		local := v.GetString("local-version")
		c.LocalVersion = &local
	}
	if v.IsSet("source-date-epoch") {
		t, err := parseEpoch(v.GetString("source-date-epoch"))
		if err != nil {
			return err
		}
		c.ModTime = t
	}

	out, err := c.Change(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if v.GetBool("delete-old-wheel") && !sameFile(out, path) {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("deleting old wheel: %w", err)
		}
		logger.Debugf("Deleted %s", path)
	}
	return nil
}

// sameFile reports whether a and b name the same file. Paths that cannot be
// stat'ed are compared lexically after cleaning.
func sameFile(a, b string) bool {
	ai, aerr := os.Stat(a)
	bi, berr := os.Stat(b)
	if aerr != nil || berr != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return os.SameFile(ai, bi)
}

func parseEpoch(s string) (time.Time, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid SOURCE_DATE_EPOCH %q: %v", s, err)
	}
	return time.Unix(n, 0).UTC(), nil
}

func main() {
	// The --version flag sets the wheel's version, so fang must not add its
	// own.
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithoutVersion(),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
