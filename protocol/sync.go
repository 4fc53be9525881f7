/*
 * Copyright 2025 Olake By Datazip
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package protocol

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "sync command",
	Long:  `Sync command starts reading records from the source and emits them on stdout`,
	Example: `
// Base command:
tap-adjust sync --config path/to/config --streams path/to/streams

// With State:
tap-adjust sync --config path/to/config --streams path/to/streams --state path/to/state
`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		} else if streamsPath == "" {
			return fmt.Errorf("--streams not passed")
		}

		// unmarshal source config
		if err := utils.UnmarshalFile(configPath, connector.GetConfigRef()); err != nil {
			return err
		}

		catalog = &types.Catalog{}
		if err := utils.UnmarshalFile(streamsPath, catalog); err != nil {
			return err
		}

		var err error
		state, err = types.LoadState(viper.GetString(constants.StatePath))
		if err != nil {
			return fmt.Errorf("failed to load state: %s", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
			defer cancel()
		}

		if err := connector.Setup(ctx); err != nil {
			return err
		}

		// Get source streams and validate the configured catalog against them
		streams, err := connector.Discover(ctx)
		if err != nil {
			return err
		}

		connector.SetupState(state)
		categories, err := types.IdentifySelectedStreams(catalog, streams, state)
		if err != nil {
			return err
		}

		pool := emitter.New(os.Stdout, state, checkpointRecords)

		syncStartTime := time.Now()
		if err := connector.Read(ctx, pool, categories); err != nil {
			// bookmarks committed before the failure stay valid; flush them
			// so a rerun resumes from there
			if flushErr := pool.Checkpoint(); flushErr != nil {
				logger.Errorf("failed to flush state after read failure: %s", flushErr)
			}
			return fmt.Errorf("error occurred while reading records: %s", err)
		}

		// flush final state so a rerun resumes from the last committed cursor
		if err := pool.Checkpoint(); err != nil {
			return fmt.Errorf("failed to checkpoint final state: %s", err)
		}

		logger.Infof("Total records read: %s in %s", humanize.Comma(pool.TotalRecords()), time.Since(syncStartTime).String())
		if !state.IsZero() {
			logger.LogState(state)
		}

		return nil
	},
}
