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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "check command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		}

		return utils.UnmarshalFile(configPath, connector.GetConfigRef())
	},
	Run: func(cmd *cobra.Command, _ []string) {
		err := connector.Setup(cmd.Context())

		// log success
		status := types.ConnectionSucceed
		message := ""
		if err != nil {
			status = types.ConnectionFailed
			message = err.Error()
		}

		if emitErr := emitter.New(os.Stdout, nil, 0).ConnectionStatus(status, message); emitErr != nil {
			logger.Fatal(emitErr)
		}
	},
}
