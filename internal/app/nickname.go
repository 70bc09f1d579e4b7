package app

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"
)

// nicknamePattern is the required Color-Animal-NN handle format.
var nicknamePattern = regexp.MustCompile(`^[A-Z][a-z]+-[A-Z][a-z]+-\d{2}$`)

// ValidNickname reports whether a handle matches the expected format.
func ValidNickname(nickname string) bool {
	return nicknamePattern.MatchString(nickname)
}

var (
	nicknameColors = []string{
		"Crimson", "Aqua", "Emerald", "Amber", "Indigo", "Violet",
		"Scarlet", "Cobalt", "Coral", "Jade", "Onyx", "Saffron",
	}
	nicknameAnimals = []string{
		"Llama", "Badger", "Phoenix", "Otter", "Falcon", "Panther",
		"Heron", "Lynx", "Dolphin", "Raven", "Gecko", "Marmot",
	}
)

// WordBankNamer generates Color-Animal-NN handles from a local word bank.
// Used standalone when no text-generation service is configured, and as the
// last-resort source behind a remote namer.
type WordBankNamer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewWordBankNamer() *WordBankNamer {
	return &WordBankNamer{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (n *WordBankNamer) Nickname(_ context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	color := nicknameColors[n.rnd.Intn(len(nicknameColors))]
	animal := nicknameAnimals[n.rnd.Intn(len(nicknameAnimals))]
	return fmt.Sprintf("%s-%s-%d", color, animal, 10+n.rnd.Intn(90)), nil
}
