package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"github.com/conneroisu/hikes/internal/config"
	"github.com/conneroisu/hikes/internal/errors"
)

var renderCmd = &cobra.Command{
	Use:   "render [fragment.html]",
	Short: "Render one HTML fragment through the site shell",
	Long: `Render an HTML fragment as a complete page and write it to stdout.
With no argument, or with "-", the fragment is read from stdin.

Examples:
  hikes render content/index.html
  echo '<h1>ERC20</h1>' | hikes render > erc20.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindPreRun(contentFlags),
	RunE:    runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("stylesheet", "", "Stylesheet URL linked from the page")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fragment, err := readFragment(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	doc, err := newDocument(cfg)
	if err != nil {
		return err
	}

	if err := doc.Render(cmd.Context(), cmd.OutOrStdout(), templ.Raw(fragment)); err != nil {
		return errors.WrapRender(err, "rendering fragment", sourceName(args))
	}
	return nil
}

func readFragment(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.WrapIO(err, errors.IOCode(err), "reading stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.WrapIO(err, errors.IOCode(err), fmt.Sprintf("reading fragment %s", args[0])).WithPath(args[0])
	}
	return string(data), nil
}

func sourceName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}
