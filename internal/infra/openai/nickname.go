package openai

import (
	"context"
	"fmt"

	"navigator-profiler/internal/app"
)

const nicknameSystemPrompt = "You are a helpful assistant that generates unique nicknames."

const nicknamePrompt = `Generate a unique, friendly nickname for a user taking an AI Navigator assessment.
The nickname should follow this format: [Color]-[Animal]-[Number]
Examples: Crimson-Llama-42, Aqua-Badger-88, Emerald-Phoenix-15

Requirements:
- Use a color name (Crimson, Aqua, Emerald, etc.)
- Use an animal name (Llama, Badger, Phoenix, etc.)
- Use a random number between 10-99
- Separate with hyphens
- Keep it friendly and non-offensive

Return only the nickname, nothing else.`

// Namer asks the completions endpoint for a Color-Animal-NN handle and
// rejects anything off-format. Satisfies app.NicknameGenerator.
type Namer struct {
	client *Client
}

func NewNamer(cfg Config) *Namer {
	return &Namer{client: NewClient(cfg)}
}

func (n *Namer) Nickname(ctx context.Context) (string, error) {
	nickname, err := n.client.complete(ctx, nicknameSystemPrompt, nicknamePrompt, 0.8, 20)
	if err != nil {
		return "", err
	}
	if !app.ValidNickname(nickname) {
		return "", fmt.Errorf("generated nickname %q does not match expected format", nickname)
	}
	return nickname, nil
}
