package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lsbCmd lists all buckets owned by the caller.
var lsbCmd = &cobra.Command{
	Use:   "lsb",
	Short: "List all buckets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := setup()
		if err != nil {
			return err
		}

		buckets, err := client.ListBuckets(cmd.Context())
		if err != nil {
			return err
		}

		for _, b := range buckets {
			fmt.Printf("%s  %s\n", b.Created.Format("2006-01-02 15:04:05"), b.Name)
		}
		return nil
	},
}

// mbCmd creates a bucket.
var mbCmd = &cobra.Command{
	Use:   "mb <bucket>",
	Short: "Create a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, client, err := setup()
		if err != nil {
			return err
		}

		if err := client.CreateBucket(cmd.Context(), args[0]); err != nil {
			return err
		}
		logg.Info("bucket created", zap.String("bucket", args[0]))
		return nil
	},
}

// rbCmd deletes a bucket. The service refuses unless the bucket is empty.
var rbCmd = &cobra.Command{
	Use:   "rb <bucket>",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logg, client, err := setup()
		if err != nil {
			return err
		}

		if err := client.DeleteBucket(cmd.Context(), args[0]); err != nil {
			return err
		}
		logg.Info("bucket deleted", zap.String("bucket", args[0]))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lsbCmd)
	RootCmd.AddCommand(mbCmd)
	RootCmd.AddCommand(rbCmd)
}
