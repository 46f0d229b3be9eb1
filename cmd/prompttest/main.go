package main

// Send one local photo to the model and print the normalized result:
//   go run ./cmd/prompttest -image leaf.jpg

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"plant-relay/internal/analysis"
	"plant-relay/internal/llm"
	"plant-relay/internal/llm/gemini"
	"plant-relay/internal/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitErr(fmt.Sprintf("load config: %v", err))
	}

	imagePath := flag.String("image", "", "Path to a JPEG, PNG or WEBP photo")
	promptVersion := flag.String("prompt-version", llm.DefaultPromptVersion, "Prompt version")
	model := flag.String("model", cfg.GeminiModel, "Gemini model")
	outPath := flag.String("out", "", "Path to write the JSON output (optional)")
	raw := flag.Bool("raw", false, "Print the model reply without normalizing")
	flag.Parse()

	if strings.TrimSpace(*imagePath) == "" {
		exitErr("image path is required")
	}
	data, err := os.ReadFile(*imagePath)
	if err != nil {
		exitErr(fmt.Sprintf("read image: %v", err))
	}
	mime := mimetype.Detect(data)
	if !mime.Is("image/jpeg") && !mime.Is("image/png") && !mime.Is("image/webp") {
		exitErr(fmt.Sprintf("unsupported image type: %s", mime.String()))
	}

	prompt, ok := llm.PromptTemplate(*promptVersion)
	if !ok {
		exitErr(fmt.Sprintf("unsupported prompt version: %s", *promptVersion))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
	defer cancel()

	client, err := gemini.NewClient(ctx, cfg.AIAPIKey, *model)
	if err != nil {
		exitErr(fmt.Sprintf("gemini client: %v", err))
	}
	defer client.Close()

	start := time.Now()
	reply, err := client.Generate(ctx, prompt, llm.ImageInput{MIMEType: mime.String(), Data: data})
	if err != nil {
		exitErr(fmt.Sprintf("generate: %v", err))
	}
	_, _ = fmt.Fprintf(os.Stderr, "model=%s prompt=%s hash=%s took=%s\n", client.Model(), *promptVersion, llm.PromptHash(prompt), time.Since(start).Round(time.Millisecond))

	var out []byte
	if *raw {
		out = []byte(analysis.StripCodeFences(reply))
	} else {
		res, err := analysis.Normalize(reply)
		if err != nil {
			exitErr(fmt.Sprintf("normalize: %v\n%s", err, reply))
		}
		if out, err = json.Marshal(res); err != nil {
			exitErr(fmt.Sprintf("marshal: %v", err))
		}
	}

	pretty, err := prettyJSON(out)
	if err != nil {
		pretty = out
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(pretty) == 0 || pretty[len(pretty)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
