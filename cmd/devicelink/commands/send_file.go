package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"devicelink/internal/domain/interfaces"
)

func sendFileCmd() *cobra.Command {
	var mediaType, caption, thumbnailPath string
	cmd := &cobra.Command{
		Use:   "send-file <recipient> <path>",
		Short: "Upload and send a file message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var thumbnail []byte
			if thumbnailPath != "" {
				thumbnail, err = os.ReadFile(thumbnailPath)
				if err != nil {
					return err
				}
			}

			ctx := context.Background()
			a, err := connectShort(ctx)
			if err != nil {
				return err
			}
			defer a.Supervisor.Shutdown()

			file := interfaces.OutgoingFile{
				Data:          data,
				ThumbnailData: thumbnail,
				MediaType:     mediaType,
				FileName:      filepath.Base(args[1]),
				Caption:       caption,
			}
			if err := a.Engine.SendFile(ctx, args[0], file); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaType, "media-type", "application/octet-stream", "MIME type of the file")
	cmd.Flags().StringVar(&caption, "caption", "", "optional caption text")
	cmd.Flags().StringVar(&thumbnailPath, "thumbnail", "", "optional thumbnail image path")
	return cmd
}
