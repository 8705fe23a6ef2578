package selector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/borgmon/zooom/pkg/models"
)

// Prompt asks on a terminal which candidate to join. It blocks until a valid
// number is entered or the user declines with an empty line or "q".
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompt) Choose(candidates []models.Meeting) (int, error) {
	fmt.Fprintln(p.Out, "Several meetings are in session:")
	for i, m := range candidates {
		fmt.Fprintf(p.Out, "  %d) %s (%s-%s)\n", i+1, m.Name, m.Start, m.End)
	}

	scanner := bufio.NewScanner(p.In)
	for {
		fmt.Fprintf(p.Out, "Join which meeting? [1-%d, q to cancel]: ", len(candidates))

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return -1, fmt.Errorf("%w: %v", ErrSelectionInput, err)
			}
			return -1, fmt.Errorf("%w: %v", ErrSelectionInput, io.ErrUnexpectedEOF)
		}

		answer := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(answer) {
		case "", "q", "quit", "n", "no":
			return -1, ErrSelectionCancelled
		}

		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(candidates) {
			fmt.Fprintf(p.Out, "%q is not a meeting number\n", answer)
			continue
		}
		return n - 1, nil
	}
}
