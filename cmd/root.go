package cmd

import (
	"os"
	"strings"

	"github.com/alec-rabold/zbootspy/pkg/zboot"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// VERSION is set during build
	VERSION string
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zbootspy <input> [<output>]",
	Short: "Extract the compressed kernel payload from a Linux EFI zboot image",
	Long: `The zbootspy CLI reads the header of a Linux EFI zboot image, prints the
	compression type, payload offset and payload size, and optionally copies the
	still-compressed payload to an output file.

	The input may be a local path or an S3 object (s3://bucket/key), in which case
	only the header and payload byte ranges are downloaded.

	example:

		zbootspy vmlinuz.efi
		zbootspy vmlinuz.efi vmlinuz.gz
		zbootspy s3://myBucket/boot/vmlinuz.efi vmlinuz.zst`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// arguments are valid past this point; runtime failures don't need usage
		cmd.SilenceUsage = true
		return runExtract(args, cmd.OutOrStdout())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version string) {
	VERSION = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zbootspy.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.Flags().Int("buffer-size", zboot.DefaultBufferSize, "size in bytes of the payload copy buffer")
	rootCmd.Flags().BoolP("force", "f", true, "overwrite the output file if it already exists")
	rootCmd.Flags().String("aws-region", "", "AWS region for s3:// inputs (default from the AWS environment)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("buffer-size", rootCmd.Flags().Lookup("buffer-size"))
	viper.BindPFlag("force", rootCmd.Flags().Lookup("force"))
	viper.BindPFlag("aws-region", rootCmd.Flags().Lookup("aws-region"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".zbootspy" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".zbootspy")
	}

	viper.SetEnvPrefix("zbootspy")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	readErr := viper.ReadInConfig()

	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	if readErr == nil {
		log.Debugf("using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Errorf("error reading config file (name: %s), err: %v", cfgFile, readErr)
		os.Exit(1)
	}
}
