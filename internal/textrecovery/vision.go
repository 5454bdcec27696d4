package textrecovery

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// Vision model text recovery has no per-word confidence; the fixed score
// reflects that model transcription generally beats raw OCR on photographs.
const visionConfidence = 90

const visionPrompt = "Extract ALL text visible in this image. Return only the text content, preserving the original formatting as closely as possible."

// VisionClient recovers text from an image with a vision-capable chat model.
type VisionClient struct {
	client *openai.Client
	model  string
}

func NewVisionClient(apiKey, model string) *VisionClient {
	if model == "" {
		model = "gpt-4o"
	}
	return &VisionClient{client: openai.NewClient(apiKey), model: model}
}

func (v *VisionClient) Recover(ctx context.Context, path string) (Result, error) {
	dataURL, err := encodeImage(path)
	if err != nil {
		return Result{}, fmt.Errorf("encode image: %w", err)
	}

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailHigh},
					},
				},
			},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("vision chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("vision chat: empty response")
	}

	return Result{
		Text:       resp.Choices[0].Message.Content,
		Confidence: visionConfidence,
		Method:     MethodVision,
	}, nil
}

func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mime := "image/png"
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	case ".bmp":
		mime = "image/bmp"
	case ".tiff":
		mime = "image/tiff"
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
