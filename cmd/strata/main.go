package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/strata-go/strata"
)

type Command struct {
	Name        string
	Usage       string
	Description string
	Action      func(args []string) error
}

var commands = []Command{
	{
		Name:        "get",
		Usage:       "get <file> <key>",
		Description: "Print the interpolated value of a key",
		Action:      getValue,
	},
	{
		Name:        "keys",
		Usage:       "keys <file>",
		Description: "List every key in the file",
		Action:      listKeys,
	},
	{
		Name:        "convert",
		Usage:       "convert <input> <output>",
		Description: "Convert between configuration formats by extension",
		Action:      convert,
	},
	{
		Name:        "validate",
		Usage:       "validate <file>",
		Description: "Parse the file and report syntax problems",
		Action:      validate,
	},
	{
		Name:        "interpolate",
		Usage:       "interpolate <file> <key>",
		Description: "Print the raw and the resolved value of a key",
		Action:      interpolate,
	},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	for _, command := range commands {
		if command.Name == name {
			if err := command.Action(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
	printUsage()
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Strata - hierarchical configuration tool")
	fmt.Println()
	fmt.Println("Usage: strata <command> [arguments]")
	fmt.Println()
	fmt.Println("Available commands:")
	for _, command := range commands {
		fmt.Printf("  %-28s %s\n", command.Usage, command.Description)
	}
}

func load(path string) (strata.FileConfiguration, error) {
	return strata.NewFileBuilder(path).Configuration()
}

func getValue(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: get <file> <key>")
	}

	configuration, err := load(args[0])
	if err != nil {
		return err
	}

	value, err := configuration.GetStringE(args[1])
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func listKeys(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: keys <file>")
	}

	configuration, err := load(args[0])
	if err != nil {
		return err
	}

	keys := configuration.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func convert(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: convert <input> <output>")
	}
	input, output := args[0], args[1]

	source, err := load(input)
	if err != nil {
		return err
	}

	targetBuilder := strata.NewFileBuilder(output)
	if strata.DetectFormat(output) == strata.DetectFormat(input) {
		return source.Save(output)
	}

	target, err := newEmpty(targetBuilder.Format())
	if err != nil {
		return err
	}
	for _, key := range source.Keys() {
		if value, ok := source.Property(key); ok {
			target.SetProperty(flatKey(targetBuilder.Format(), key), value)
		}
	}
	return target.Save(output)
}

func newEmpty(format string) (strata.FileConfiguration, error) {
	switch format {
	case strata.FormatProperties:
		return strata.NewPropertiesConfiguration(), nil
	case strata.FormatYAML:
		return strata.NewYAMLConfiguration(), nil
	case strata.FormatJSON:
		return strata.NewJSONConfiguration(), nil
	case strata.FormatTOML:
		return strata.NewTOMLConfiguration(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// flatKey strips index selectors when the target format is flat
func flatKey(format, key string) string {
	if format != strata.FormatProperties {
		return key
	}

	var b strings.Builder
	depth := 0
	for _, r := range key {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func validate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: validate <file>")
	}

	configuration, err := load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("OK: %d keys\n", configuration.Size())
	return nil
}

func interpolate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: interpolate <file> <key>")
	}

	configuration, err := load(args[0])
	if err != nil {
		return err
	}

	raw, ok := configuration.Property(args[1])
	if !ok {
		return fmt.Errorf("key %q not found", args[1])
	}
	resolved := configuration.GetString(args[1])
	fmt.Printf("raw:      %v\n", raw)
	fmt.Printf("resolved: %s\n", resolved)
	return nil
}
