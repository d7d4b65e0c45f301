package cmd

import (
	"fmt"
	"os"

	"github.com/DestrierStudios/Rayfall/internal/atlas"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect ATLAS",
	Short: "Inspect a texture atlas",
	Long: `List the textures stored in an atlas database together with the
parameters that produced them, or extract a single entry to a PNG file.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("name", "", "Extract the entry with this name instead of listing")
	inspectCmd.Flags().StringP("output", "o", "", "Output file for the extracted entry (default: <name>.png)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"inspect.name", "name"},
		{"inspect.output", "output"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, inspectCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	path := args[0]
	name := viper.GetString("inspect.name")
	output := viper.GetString("inspect.output")

	reader, err := atlas.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open atlas %s: %w", path, err)
	}
	defer reader.Close()

	if name != "" {
		return extractEntry(reader, name, output)
	}
	return listEntries(reader, path)
}

func extractEntry(reader *atlas.Reader, name, output string) error {
	entry, err := reader.Get(name)
	if err != nil {
		return err
	}

	if output == "" {
		output = name + ".png"
	}
	if err := os.WriteFile(output, entry.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	logger.Info("Texture extracted", "name", name, "seed", entry.Seed, "dest", output)
	return nil
}

func listEntries(reader *atlas.Reader, path string) error {
	meta, err := reader.Metadata()
	if err != nil {
		return err
	}
	entries, err := reader.List()
	if err != nil {
		return err
	}

	title := meta.Name
	if title == "" {
		title = "(unnamed atlas)"
	}
	fmt.Printf("%s: %s, %d textures\n", path, title, len(entries))

	for _, e := range entries {
		fmt.Printf("  %-24s %5dx%-5d seed=%-8d octaves=%d scale=%g persistence=%g lacunarity=%g algorithm=%s ramp=%q created=%s\n",
			e.Name, e.Width, e.Height, e.Seed,
			e.Octaves, e.Scale, e.Persistence, e.Lacunarity,
			e.Algorithm, e.Ramp, e.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
