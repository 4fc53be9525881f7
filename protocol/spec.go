package protocol

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/jsonschema"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

// specCmd represents the spec command
var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "spec command",
	RunE: func(_ *cobra.Command, _ []string) error {
		schema, err := jsonschema.Reflect(connector.Spec())
		if err != nil {
			return fmt.Errorf("failed to reflect config: %s", err)
		}

		logger.FileLogger(schema, "spec", ".json")

		return emitter.New(os.Stdout, nil, 0).Spec(schema)
	},
}
