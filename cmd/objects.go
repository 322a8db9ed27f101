package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"s3kit/feature/s3"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	putContentType string
	putMetadata    []string
	getOutputPath  string
)

// putCmd uploads a file as an object, replacing any existing object of the
// same name.
var putCmd = &cobra.Command{
	Use:   "put <bucket> <key> <file>",
	Short: "Upload a file as an object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, client, err := setup()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[2], err)
		}

		metadata, err := parseMetadataFlags(putMetadata)
		if err != nil {
			return err
		}

		err = client.PutObject(cmd.Context(), args[0], args[1], data, s3.PutOptions{
			ContentType: putContentType,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}
		logg.Info("object stored",
			zap.String("bucket", args[0]),
			zap.String("key", args[1]),
			zap.Int("size", len(data)))
		return nil
	},
}

// getCmd downloads an object to a file or stdout.
var getCmd = &cobra.Command{
	Use:   "get <bucket> <key>",
	Short: "Download an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := setup()
		if err != nil {
			return err
		}

		resp, err := client.GetObject(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		if getOutputPath == "" || getOutputPath == "-" {
			_, err = os.Stdout.Write(resp.Body)
			return err
		}
		return os.WriteFile(getOutputPath, resp.Body, 0o644)
	},
}

// headCmd prints the response headers of an object without its content.
var headCmd = &cobra.Command{
	Use:   "head <bucket> <key>",
	Short: "Show an object's response headers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := setup()
		if err != nil {
			return err
		}

		resp, err := client.HeadObject(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		names := make([]string, 0, len(resp.Header))
		for name := range resp.Header {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, v := range resp.Header[name] {
				fmt.Printf("%s: %s\n", name, v)
			}
		}
		return nil
	},
}

// rmCmd deletes an object. There is no undelete.
var rmCmd = &cobra.Command{
	Use:   "rm <bucket> <key>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, client, err := setup()
		if err != nil {
			return err
		}

		if err := client.DeleteObject(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		logg.Info("object deleted", zap.String("bucket", args[0]), zap.String("key", args[1]))
		return nil
	},
}

// parseMetadataFlags turns repeated key=value flags into a metadata map.
func parseMetadataFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(flags))
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata flag %q, expected key=value", f)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func init() {
	putCmd.Flags().StringVar(&putContentType, "content-type", "", "explicit content type (inferred from the key's extension when omitted)")
	putCmd.Flags().StringArrayVar(&putMetadata, "meta", nil, "object metadata as key=value, repeatable")
	getCmd.Flags().StringVarP(&getOutputPath, "output", "o", "", "write the object to this file instead of stdout")

	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(headCmd)
	RootCmd.AddCommand(rmCmd)
}
