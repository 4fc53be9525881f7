package protocol

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/drivers/abstract"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

var (
	configPath        string
	streamsPath       string
	statePath         string
	checkpointRecords int64
	timeout           int64 // timeout in seconds

	catalog *types.Catalog
	state   *types.State

	commands  = []*cobra.Command{}
	connector *abstract.AbstractDriver
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tap-adjust",
	Short: "root command",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// set global variables
		viper.SetDefault(constants.ConfigFolder, os.TempDir())
		viper.SetDefault(constants.StatePath, filepath.Join(os.TempDir(), "state.json"))
		viper.SetDefault(constants.StreamsPath, filepath.Join(os.TempDir(), "streams.json"))

		if configPath != "not-set" {
			configFolder := filepath.Dir(configPath)
			statePathEnv := utils.Ternary(statePath == "", filepath.Join(configFolder, "state.json"), statePath).(string)
			streamsPathEnv := utils.Ternary(streamsPath == "", filepath.Join(configFolder, "streams.json"), streamsPath).(string)
			viper.Set(constants.ConfigFolder, configFolder)
			viper.Set(constants.StatePath, statePathEnv)
			viper.Set(constants.StreamsPath, streamsPathEnv)
		}

		// logger uses CONFIG_FOLDER
		logger.Init()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'tap-adjust --help' to display usage guide", args[0])
		}

		return nil
	},
}

func CreateRootCommand(driver Driver) *cobra.Command {
	RootCmd.AddCommand(commands...)
	connector = abstract.NewAbstractDriver(driver)

	return RootCmd
}

func init() {
	commands = append(commands, specCmd, checkCmd, discoverCmd, syncCmd)
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "not-set", "(Required) Config for connector")
	RootCmd.PersistentFlags().StringVarP(&streamsPath, "catalog", "", "", "Path to the streams file for the connector")
	RootCmd.PersistentFlags().StringVarP(&streamsPath, "streams", "", "", "Path to the streams file for the connector")
	RootCmd.PersistentFlags().StringVarP(&statePath, "state", "", "", "(Optional) State for connector")
	RootCmd.PersistentFlags().Int64VarP(&checkpointRecords, "checkpoint-interval", "", constants.DefaultCheckpointRecords, "(Optional) Records between STATE checkpoints")
	RootCmd.PersistentFlags().Int64VarP(&timeout, "timeout", "", -1, "(Optional) Timeout to override default timeouts (in seconds)")

	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
