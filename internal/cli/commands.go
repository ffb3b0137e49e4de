package cli

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/mckinley/go-api-rest-client/httpclient"
	"github.com/mckinley/go-api-rest-client/multipart"
	"github.com/mckinley/go-api-rest-client/version"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var id, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the service's answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			result, err := httpclient.Login[map[string]any](cmd.Context(), client, id, password)
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), a.flags.Output, result)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Login id")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var (
		name   string
		params map[string]string
		files  []string
		images []string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload form fields, files and images to an endpoint",
		Example: `  mckinley upload --endpoint avatar --param user=42 --image photo=me.png
  mckinley upload --endpoint docs --file doc=a.pdf --file doc=b.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parts, err := uploadFiles(files, images)
			if err != nil {
				return err
			}
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			result, err := httpclient.Upload[map[string]any](cmd.Context(), client, name, params, parts)
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), a.flags.Output, result)
		},
	}
	cmd.Flags().StringVar(&name, "endpoint", "", "Endpoint name")
	cmd.Flags().StringToStringVar(&params, "param", nil, "Form field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "File to attach as key=path (repeat a key to send a list)")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image to attach as key=path, sent as JPEG (repeat a key to send a list)")
	_ = cmd.MarkFlagRequired("endpoint")
	return cmd
}

func newEndpointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoints of the selected environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}

			var rows [][]string
			listing := make([]map[string]string, 0)
			for _, name := range client.Registry.Names() {
				ep, err := client.Registry.Lookup(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{ep.Name, ep.URL})
				listing = append(listing, map[string]string{"name": ep.Name, "url": ep.URL})
			}

			if a.flags.Output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			return writeTable(cmd.OutOrStdout(), []string{"name", "url"}, rows)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetUserAgentHeader())
		},
	}
}

// uploadFiles groups key=path flag values by key. A key given once becomes a single file or
// image, a repeated key a list.
func uploadFiles(files, images []string) (map[string]multipart.File, error) {
	parts := make(map[string]multipart.File)

	fileRefs, err := groupPairs("--file", files)
	if err != nil {
		return nil, err
	}
	for key, paths := range fileRefs {
		if len(paths) == 1 {
			parts[key] = multipart.FileRef(paths[0])
		} else {
			parts[key] = multipart.FileRefs(paths)
		}
	}

	imagePaths, err := groupPairs("--image", images)
	if err != nil {
		return nil, err
	}
	for key, paths := range imagePaths {
		if _, exists := parts[key]; exists {
			return nil, fmt.Errorf("key %q is used by both --file and --image", key)
		}
		decoded := make([]image.Image, 0, len(paths))
		for _, path := range paths {
			img, err := decodeImage(path)
			if err != nil {
				return nil, err
			}
			decoded = append(decoded, img)
		}
		if len(decoded) == 1 {
			parts[key] = multipart.Image{Image: decoded[0]}
		} else {
			parts[key] = multipart.Images(decoded)
		}
	}
	return parts, nil
}

func groupPairs(flag string, values []string) (map[string][]string, error) {
	grouped := make(map[string][]string)
	for _, value := range values {
		key, path, ok := strings.Cut(value, "=")
		if !ok || key == "" || path == "" {
			return nil, fmt.Errorf("invalid %s value %q: must be key=path", flag, value)
		}
		grouped[key] = append(grouped[key], path)
	}
	return grouped, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", path, err)
	}
	return img, nil
}
