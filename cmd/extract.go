package cmd

import (
	"context"
	"io"

	"github.com/alec-rabold/zbootspy/pkg/zboot"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// runExtract reports the header of args[0] to stdout and, when args[1] is
// given, writes the compressed payload there.
func runExtract(args []string, stdout io.Writer) error {
	input := args[0]
	var output string
	if len(args) > 1 {
		output = args[1]
	}

	x := zboot.NewExtractor(context.Background(), zboot.Config{
		BufferSize: viper.GetInt("buffer-size"),
		Force:      viper.GetBool("force"),
		Region:     viper.GetString("aws-region"),
	})
	hdr, err := x.Run(input, output, stdout)
	if err != nil {
		return err
	}
	if output != "" {
		log.Debugf("wrote %d payload bytes (name: %s)", hdr.PayloadSize, output)
	}
	return nil
}
