package dice

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/PancyStudios/DiscModGo/pkg/module"
)

const maxDice = 20

func New() *module.Module {
	m := module.New("Dice")

	// roll [NdM], por defecto 1d6
	m.Command("roll", func(c *module.Command) error {
		count, sides, err := parse(c.Text)
		if err != nil {
			go c.Reply("🎲 Uso: " + c.Prefix + "roll [NdM]")
			return nil
		}

		total := 0
		rolls := make([]string, count)
		for i := 0; i < count; i++ {
			n := rand.Intn(sides) + 1
			total += n
			rolls[i] = strconv.Itoa(n)
		}

		go c.Reply(fmt.Sprintf("🎲 %s = **%d**", strings.Join(rolls, " + "), total))
		return nil
	})

	return m
}

func parse(text string) (int, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 1, 6, nil
	}

	parts := strings.SplitN(strings.ToLower(text), "d", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid dice %q", text)
	}

	count := 1
	if parts[0] != "" {
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, err
		}
		count = n
	}
	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if count < 1 || count > maxDice || sides < 2 {
		return 0, 0, fmt.Errorf("out of range %q", text)
	}
	return count, sides, nil
}
