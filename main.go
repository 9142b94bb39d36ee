package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sgx-interface-side-channel/sgx-interface-side-channel/crawl"
	"github.com/sgx-interface-side-channel/sgx-interface-side-channel/formalize"
)

var (
	BuildName       = "\b"
	BuildAnnotation = "git"
)

var printer = log.New(os.Stdout, "", 0)

type CmdOpts struct {
	inputs     formalize.Inputs
	outputPath string
	listURL    string
	destDir    string
	testIP4    bool
	testIP6    bool
}

func printHeader() {
	printer.Printf("formalize %s (%s)\n", BuildName, BuildAnnotation)
	printer.Println()
	printer.Printf("Run: %s\n", uuid.New().String())
	printer.Printf("At: %s\n", time.Now().Format(time.RFC1123Z))
	printer.Println()
}

func addInputFlags(flags *pflag.FlagSet, opts *CmdOpts) {
	defaults := formalize.DefaultInputs()

	flags.StringVar(&opts.inputs.Before, "before", defaults.Before, "Result log of the baseline variant")
	flags.StringVar(&opts.inputs.After, "after", defaults.After, "Result log of the treatment variant")
	flags.StringVar(&opts.inputs.Pure, "pure", defaults.Pure, "Result log of the reference variant")
}

func addProtocolFlags(flags *pflag.FlagSet, opts *CmdOpts) {
	flags.BoolVarP(&opts.testIP4, "ip4", "4", false, "Fetch over IPv4 only")
	flags.BoolVarP(&opts.testIP6, "ip6", "6", false, "Fetch over IPv6 only")
}

func (opts *CmdOpts) transportProtocol() (string, error) {
	switch {
	case opts.testIP4 && opts.testIP6:
		return "", errors.New("--ip4 and --ip6 are mutually exclusive")
	case opts.testIP4:
		return "tcp4", nil
	case opts.testIP6:
		return "tcp6", nil
	}

	return "tcp", nil
}

func newSummaryCmd(opts *CmdOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-site overhead statistics of the after and pure variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printHeader()
			return formalize.SummarizeAndPrint(printer, opts.inputs)
		},
	}
	addInputFlags(cmd.Flags(), opts)

	return cmd
}

func newFetchCmd(opts *CmdOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch URL DEST",
		Short: "Save a single page as a capture input",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			protocol, err := opts.transportProtocol()
			if err != nil {
				return err
			}

			savedSize, err := crawl.NewFetcher(protocol).Retrieve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printer.Printf("%s: %d bytes\n", args[1], savedSize)

			return nil
		},
	}
	addProtocolFlags(cmd.Flags(), opts)

	return cmd
}

func newCrawlCmd(opts *CmdOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Save every site of a top-sites list as a capture input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			protocol, err := opts.transportProtocol()
			if err != nil {
				return err
			}

			printHeader()
			stats, err := crawl.NewFetcher(protocol).Crawl(cmd.Context(), printer, opts.listURL, opts.destDir)
			if stats != nil {
				printer.Println()
				printer.Printf("Sites: %d\n", stats.NSites)
				printer.Printf("Saved: %d (%.3f MiB)\n", stats.NSaved, float64(stats.SavedSize)/1024/1024)
				printer.Printf("Failed: %d\n", stats.NFailed)
			}

			return err
		},
	}
	cmd.Flags().StringVar(&opts.listURL, "list-url", crawl.DefaultListURL, "Page listing the sites to fetch")
	cmd.Flags().StringVar(&opts.destDir, "dest", crawl.DefaultDestDir, "Directory to save captures in")
	addProtocolFlags(cmd.Flags(), opts)

	return cmd
}

func newRootCmd() *cobra.Command {
	opts := &CmdOpts{}

	cmd := &cobra.Command{
		Use:           "formalize",
		Short:         "Merge before/after/pure result logs into one comparison table",
		Version:       fmt.Sprintf("%s (%s)", BuildName, BuildAnnotation),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			printHeader()
			return formalize.RunAndPrint(printer, opts.inputs, opts.outputPath)
		},
	}
	addInputFlags(cmd.Flags(), opts)
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", formalize.DefaultOutputPath, "Table to write (.xlsx, .csv or .json)")

	cmd.AddCommand(newSummaryCmd(opts), newFetchCmd(opts), newCrawlCmd(opts))

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
