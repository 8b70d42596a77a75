package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorize "github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultWidth = 80

type drawOptions struct {
	spread      string
	seed        uint64
	catalogPath string
	reversal    float64
	noColor     bool
}

func newDrawCmd() *cobra.Command {
	opts := &drawOptions{}

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a reading in the terminal",
		Long: `draw performs a reading locally without a server or database.
Pass --seed to make the draw reproducible.

Examples:
  tarot draw
  tarot draw --spread celtic
  tarot draw --spread daily --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				colorize.NoColor = true
			}

			catalog, err := loadCatalog(opts.catalogPath)
			if err != nil {
				return err
			}
			drawer, err := tarot.NewDrawer(catalog, opts.reversal)
			if err != nil {
				return err
			}

			rng := tarot.SystemRand
			if cmd.Flags().Changed("seed") {
				rng = tarot.NewSeededRand(opts.seed)
			}
			oracle, err := service.NewOracle(drawer, tarot.NewInterpreter(catalog), rng)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), terminalWidth())
			if opts.spread == tarot.SpreadDaily {
				cards, interp, fortune, err := oracle.DailyFortune()
				if err != nil {
					return err
				}
				p.reading(cards, interp)
				p.fortune(fortune)
				return nil
			}

			cards, interp, err := oracle.Read(opts.spread)
			if err != nil {
				return err
			}
			p.reading(cards, interp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.spread, "spread", "s", tarot.SpreadThree, "spread ID (see cards --spreads)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for a reproducible draw")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "card catalog TOML file (default embedded)")
	cmd.Flags().Float64Var(&opts.reversal, "reversal", tarot.DefaultReversalProbability, "probability a card is reversed")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return cmd
}

// terminalWidth returns the width of stdout, or defaultWidth when stdout
// is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// printer renders readings for a terminal.
type printer struct {
	out   io.Writer
	width int

	title    *colorize.Color
	position *colorize.Color
	upright  *colorize.Color
	reversed *colorize.Color
	label    *colorize.Color
}

func newPrinter(out io.Writer, width int) *printer {
	return &printer{
		out:      out,
		width:    width,
		title:    colorize.New(colorize.FgMagenta, colorize.Bold),
		position: colorize.New(colorize.FgCyan),
		upright:  colorize.New(colorize.FgYellow, colorize.Bold),
		reversed: colorize.New(colorize.FgRed, colorize.Bold),
		label:    colorize.New(colorize.FgGreen),
	}
}

func (p *printer) reading(cards []domain.DrawnCard, interp domain.Interpretation) {
	for i, card := range cards {
		orientation := p.upright
		if card.IsReversed {
			orientation = p.reversed
		}
		fmt.Fprintf(p.out, "%s  %s (%s)\n",
			p.position.Sprint(card.Position),
			orientation.Sprint(card.Name),
			tarot.OrientationLabel(card.IsReversed))
		if i < len(interp.Cards) {
			p.wrapped("    ", interp.Cards[i].Meaning)
		}
	}
	fmt.Fprintln(p.out)
	p.wrapped("", interp.General)
}

func (p *printer) fortune(f domain.Fortune) {
	fmt.Fprintln(p.out)
	for _, aspect := range []struct{ name, text string }{
		{"综合", f.General},
		{"爱情", f.Love},
		{"事业", f.Career},
		{"健康", f.Health},
	} {
		fmt.Fprintln(p.out, p.title.Sprint(aspect.name))
		p.wrapped("    ", aspect.text)
	}
	fmt.Fprintf(p.out, "%s %s   %s %d\n",
		p.label.Sprint("幸运色"), f.LuckyColor,
		p.label.Sprint("幸运数字"), f.LuckyNumber)
}

func (p *printer) wrapped(indent, text string) {
	for _, line := range wrap(text, p.width-runewidth.StringWidth(indent)) {
		fmt.Fprintln(p.out, indent+line)
	}
}

// minWrapWidth keeps very narrow terminals readable.
const minWrapWidth = 10

// wrap lays text out in lines no wider than width terminal columns.
// Words break at spaces; runs without spaces, such as Chinese text,
// break between graphemes.
func wrap(text string, width int) []string {
	if width < minWrapWidth {
		width = minWrapWidth
	}
	block := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}
