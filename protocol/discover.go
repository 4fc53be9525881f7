package protocol

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "discover command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		}

		return utils.UnmarshalFile(configPath, connector.GetConfigRef())
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		err := connector.Setup(cmd.Context())
		if err != nil {
			return err
		}

		streams, err := connector.Discover(cmd.Context())
		if err != nil {
			return err
		}

		if len(streams) == 0 {
			return errors.New("no streams found in connector")
		}

		catalog := types.GetWrappedCatalog(streams)
		logger.FileLogger(catalog, "streams", ".json")

		return emitter.New(os.Stdout, nil, 0).Catalog(catalog)
	},
}
