package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"herocc/pkg/cc"
	"herocc/pkg/compiler"
	"herocc/pkg/config"
)

var (
	cfgFile    string
	outputPath string
	emitCPath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "herocc <source.hero>",
	Short: "Compiler for the SuperHero programming language",
	Long: `herocc compiles SuperHero programs to native executables.

The source is lowered to one self-contained C file and handed to the first
backend C compiler found on PATH (gcc, clang, cc; cl on Windows).`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "herocc:", err)
	}
	return err
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output executable path (default: source minus its extension)")
	rootCmd.Flags().StringVar(&emitCPath, "emit-c", "", "also write the generated C to this file")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: herocc.toml/.yaml/.yml in the working directory)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "dump tokens, instruction tree, symbols and generated C")
}

func run(source string) error {
	if !strings.HasSuffix(source, ".hero") {
		fmt.Fprintln(os.Stderr, "Warning: Source file doesn't have .hero extension")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	res, err := compiler.Compile(string(data), cfg.Options())
	if err != nil {
		return err
	}

	if verbose {
		dump(res)
	}

	if emitCPath != "" {
		if err := os.WriteFile(emitCPath, []byte(res.CSource), 0644); err != nil {
			return fmt.Errorf("write C: %w", err)
		}
		fmt.Printf("Generated C written to %s\n", emitCPath)
	}

	out := outputPath
	if out == "" {
		out = defaultOutputPath(source)
	}

	drv := &cc.Driver{
		Compilers: cfg.Backend.Compilers,
		Verbose:   verbose,
		KeepC:     cfg.Backend.KeepC,
	}
	if _, err := drv.Build(res.CSource, out); err != nil {
		return err
	}

	fmt.Printf("Successfully compiled %s to %s\n", source, out)
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.Discover(".")
}

// defaultOutputPath strips the source extension, so prog.hero becomes prog.
// Windows executables get .exe appended.
func defaultOutputPath(source string) string {
	out := strings.TrimSuffix(source, filepath.Ext(source))
	if runtime.GOOS == "windows" && !strings.HasSuffix(out, ".exe") {
		out += ".exe"
	}
	return out
}

// dump prints every pipeline artifact in order.
func dump(res *compiler.Result) {
	fmt.Printf("Tokens (%d)\n", len(res.Tokens))
	for _, tok := range res.Tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	fmt.Println("Instructions")
	printTree(res.Program, 1)
	fmt.Println()

	fmt.Print(res.Symbols)
	fmt.Println()

	fmt.Println("Generated C")
	fmt.Print(res.CSource)
}

// printTree walks the instruction tree, indenting each flash body under its
// header.
func printTree(program []compiler.Instruction, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, in := range program {
		fmt.Println(pad + in.String())
		if loop, ok := in.(*compiler.Loop); ok {
			printTree(loop.Body, depth+1)
		}
	}
}
