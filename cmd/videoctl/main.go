package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sorabridge/internal/videoapi"
	"sorabridge/pkg/bundle"
)

func main() {
	var (
		opFlag      string
		proxyFlag   string
		modelFlag   string
		promptFlag  string
		sizeFlag    string
		secondsFlag string
		inputFlag   string
		idFlag      string
		variantFlag string
		outFlag     string
	)

	flag.StringVar(&opFlag, "op", "", "operation: create, remix, get, delete, download, bundle")
	flag.StringVar(&proxyFlag, "proxy", "", "backend proxy base URL (omit to talk to the provider directly)")
	flag.StringVar(&modelFlag, "model", videoapi.ModelSora2, "generation model")
	flag.StringVar(&promptFlag, "prompt", "", "prompt text (create, remix)")
	flag.StringVar(&sizeFlag, "size", "1280x720", "output size, <width>x<height>")
	flag.StringVar(&secondsFlag, "seconds", "8", "clip duration in seconds")
	flag.StringVar(&inputFlag, "input", "", "path to an optional input reference image (create)")
	flag.StringVar(&idFlag, "id", "", "job ID (remix, get, delete, download, bundle)")
	flag.StringVar(&variantFlag, "variant", "", "content variant: video, thumbnail, spritesheet (download)")
	flag.StringVar(&outFlag, "o", "", "output file path (download, bundle)")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	client, err := buildClient(proxyFlag)
	if err != nil {
		exitWithError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch strings.TrimSpace(opFlag) {
	case "create":
		req := videoapi.CreateRequest{
			Model:   modelFlag,
			Prompt:  promptFlag,
			Size:    sizeFlag,
			Seconds: secondsFlag,
		}
		if inputFlag != "" {
			ref, err := loadInputReference(inputFlag)
			if err != nil {
				exitWithError(err)
			}
			req.InputReference = ref
		}
		job, err := client.Create(ctx, req)
		if err != nil {
			exitWithError(err)
		}
		printJob(job)
	case "remix":
		job, err := client.Remix(ctx, idFlag, promptFlag)
		if err != nil {
			exitWithError(err)
		}
		printJob(job)
	case "get":
		job, err := client.Retrieve(ctx, idFlag)
		if err != nil {
			exitWithError(err)
		}
		printJob(job)
	case "delete":
		if err := client.Delete(ctx, idFlag); err != nil {
			exitWithError(err)
		}
		fmt.Printf("deleted %s\n", idFlag)
	case "download":
		blob, err := client.DownloadContent(ctx, idFlag, videoapi.ContentVariant(variantFlag))
		if err != nil {
			exitWithError(err)
		}
		out := outFlag
		if out == "" {
			out = idFlag + bundle.ExtensionForMIME(blob.MIME)
		}
		if err := os.WriteFile(out, blob.Data, 0o644); err != nil {
			exitWithError(err)
		}
		fmt.Printf("wrote %s (%d bytes, %s)\n", out, len(blob.Data), blob.MIME)
	case "bundle":
		data, err := bundle.DownloadAll(ctx, client, idFlag)
		if err != nil {
			exitWithError(err)
		}
		out := outFlag
		if out == "" {
			out = idFlag + ".zip"
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			exitWithError(err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
	default:
		exitWithError(fmt.Errorf("unsupported -op %q", opFlag))
	}
}

// buildClient picks the mode from flags and environment. Direct mode
// reads OPENAI_API_KEY; proxy mode reads PASSWORD_HASH, or PASSWORD to
// hash locally so the raw secret never leaves the process.
func buildClient(proxyBaseURL string) (*videoapi.Client, error) {
	if proxyBaseURL != "" {
		hash := strings.TrimSpace(os.Getenv("PASSWORD_HASH"))
		if hash == "" {
			if password := os.Getenv("PASSWORD"); password != "" {
				hash = videoapi.HashCredential(password)
			}
		}
		return videoapi.NewClient(videoapi.Config{
			Mode:           videoapi.ModeBackendProxy,
			BaseURL:        proxyBaseURL,
			CredentialHash: hash,
		})
	}
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY is required without -proxy")
	}
	return videoapi.NewClient(videoapi.Config{
		Mode:       videoapi.ModeProviderDirect,
		Credential: key,
		BaseURL:    os.Getenv("OPENAI_BASE_URL"),
	})
}

func loadInputReference(path string) (*videoapi.InputReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input reference: %w", err)
	}
	return &videoapi.InputReference{
		Filename: filepath.Base(path),
		MIME:     http.DetectContentType(data),
		Data:     data,
	}, nil
}

func printJob(job *videoapi.Job) {
	encoded, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(string(encoded))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
