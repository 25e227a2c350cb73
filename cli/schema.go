package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/viam-modules/resistive-touch/config"
)

// SchemaAction prints the JSON schema of the config file.
func SchemaAction(c *cli.Context) error {
	out, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
