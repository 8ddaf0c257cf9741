package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"folio/folio/config"
	"folio/folio/sources/storage"
	"folio/folio/utils/color"
	"folio/folio/utils/logging"

	"github.com/spf13/cobra"
)

var uploadAssetCmd = &cobra.Command{
	Use:   "upload-asset <file>",
	Short: "Upload a file to the asset bucket, served at /assets/<name>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logging.InitLogger(cfg.LogDir)
		if !cfg.MinIOConfigured() {
			return fmt.Errorf("no asset store configured: set MINIO_ENDPOINT")
		}

		path := args[0]
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(path)
		}
		contentType, _ := cmd.Flags().GetString("content-type")
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(path))
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		store, err := storage.NewAssetStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		asset, err := store.Put(cmd.Context(), name, f, info.Size(), contentType)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.ColorInfo(fmt.Sprintf("Uploaded %s (%d bytes) to /assets/%s", path, asset.Size, asset.Name)))
		return nil
	},
}

func init() {
	uploadAssetCmd.Flags().String("name", "", "Asset name (defaults to the file name)")
	uploadAssetCmd.Flags().String("content-type", "", "Content type (guessed from the extension when omitted)")
}
