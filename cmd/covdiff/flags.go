package main

import (
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/spf13/cobra"
)

// AttachCLIFlags attaches command line flags to the root command
func AttachCLIFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringP("config", "c", "", "the config file to use")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Run in verbose mode")

	rootCmd.Flags().StringSlice("classes", nil, "Directories holding the class artifacts")
	rootCmd.Flags().StringSlice("sources", nil, "Source directories used to render class pages")
	rootCmd.Flags().String("root", "", "Project root searched for class and source directories")
	rootCmd.Flags().StringSlice("first", nil, "Baseline execution record files")
	rootCmd.Flags().StringSlice("second", nil, "Comparison execution record files")
	rootCmd.Flags().StringSlice("exec", nil, "Baseline execution record file followed by the comparison files")
	rootCmd.Flags().StringP("report", "o", "", "Output directory of the report")
	rootCmd.Flags().StringSlice("titles", nil, "Column titles of the baseline and comparison suites")
	rootCmd.Flags().String("unit", "lines", "Coverage unit of the summary tables (lines, branches or instructions)")
	rootCmd.Flags().Bool("filter-baseline", true, "Only analyze classes executed by the baseline suite")
	rootCmd.Flags().Int("workers", 0, "Size of the analysis worker pool, 0 sizes it from the available CPUs")
	rootCmd.Flags().String("assets", "", "Directory replacing the embedded report resources")
	rootCmd.Flags().Bool("archive", false, "Pack the report into a tar.zst archive")
	rootCmd.Flags().Bool("upload", false, "Upload the archive and summary files to Azure blob storage")
}

// attachMergeFlags attaches the flags of the merge command
func attachMergeFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("exec", nil, "Execution record files to merge")
	cmd.Flags().String("out", "", "Destination of the merged execution record file")
}

// attachServeFlags attaches the flags of the serve command
func attachServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("report", "o", "", "Directory of a generated report")
	cmd.Flags().StringP("port", "p", global.DefaultPort, "Port for api server to run")
}
