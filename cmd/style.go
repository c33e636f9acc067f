package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/samber/lo"

	"github.com/luca-patrignani/onirim/application"
	"github.com/luca-patrignani/onirim/domain/onirim"
	"github.com/luca-patrignani/onirim/ledger"
	"github.com/luca-patrignani/onirim/notifier"
	"github.com/luca-patrignani/onirim/poller"
	"github.com/luca-patrignani/onirim/state"
)

// statusLines is how many of the latest status entries the dashboard shows.
const statusLines = 8

func printBanner() {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("O", pterm.FgMagenta.ToStyle()),
		putils.LettersFromStringWithStyle("nirim", pterm.FgDarkGray.ToStyle()),
	).Render()
}

func renderDashboard(snap state.Snapshot, streams []application.StreamStatus) (string, error) {
	return pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{{Data: printBoardInfo(snap.Board)}},
		{{Data: printStatusLog(snap.Status, statusLines)}, {Data: printPromptInfo(snap.Prompt)}},
		{{Data: printStreams(streams)}},
	}).Srender()
}

func printBoardInfo(b *onirim.Board) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	if b == nil {
		return pbox.WithTitle("Board").WithTitleTopLeft().Sprint(pterm.Gray("waiting for the board ..."))
	}
	var sb strings.Builder
	sb.WriteString(pterm.Sprintfln("State: %s    Cards remaining: %d", pterm.LightCyan(b.State), b.CardsRemaining))
	sb.WriteString(pterm.Sprintfln("Hand:    %s", printCards(b.Hand)))
	sb.WriteString(pterm.Sprintfln("Row:     %s", printCards(b.Row)))
	sb.WriteString(pterm.Sprintfln("Doors:   %s", printCards(b.Doors)))
	sb.WriteString(pterm.Sprintf("Discard: %s", printCards(lo.Slice(b.Discard, max(len(b.Discard)-5, 0), len(b.Discard)))))
	return pbox.WithTitle("Board").WithTitleTopLeft().Sprint(sb.String())
}

func printCards(keys []string) string {
	if len(keys) == 0 {
		return pterm.Gray("-")
	}
	return strings.Join(onirim.DescribeCards(keys), " - ")
}

func printStatusLog(entries []ledger.Entry, limit int) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2)
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	lines := lo.Map(entries, func(e ledger.Entry, _ int) string {
		if e.Source == ledger.SourceClient {
			return pterm.LightYellow(e.Message)
		}
		return e.Message
	})
	if len(lines) == 0 {
		lines = []string{pterm.Gray("no news yet")}
	}
	return pbox.WithTitle("Status").WithTitleTopLeft().Sprint(strings.Join(lines, "\n"))
}

func printPromptInfo(p *onirim.Prompt) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2)
	if p == nil || (p.Message == "" && !p.HasChoices()) {
		return pbox.WithTitle("Prompt").WithTitleTopLeft().Sprint(pterm.Gray("nothing to decide"))
	}
	lines := []string{p.Message}
	lines = append(lines, lo.Map(p.Choices, func(c onirim.Choice, _ int) string {
		return "  " + choiceLabel(c)
	})...)
	return pbox.WithTitle(pterm.LightYellow("Prompt")).WithTitleTopLeft().Sprint(strings.Join(lines, "\n"))
}

func printStreams(streams []application.StreamStatus) string {
	parts := lo.Map(streams, func(s application.StreamStatus, _ int) string {
		switch {
		case s.Phase == poller.Polling:
			return pterm.LightGreen(s.Name)
		case s.Reason == poller.ReasonFailed:
			return pterm.LightRed(fmt.Sprintf("%s (failed)", s.Name))
		default:
			return pterm.Gray(fmt.Sprintf("%s (%s)", s.Name, s.Reason))
		}
	})
	return strings.Join(parts, "  ")
}

// choiceLabel is the text of a choice in the select menu. The key keeps
// labels unique when two choices share a name.
func choiceLabel(c onirim.Choice) string {
	if c.Name == "" {
		return c.Key
	}
	return fmt.Sprintf("%s [%s]", c.Name, c.Key)
}

func printModal(m notifier.Modal) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(10).WithTopPadding(1).WithBottomPadding(1)
	text := pterm.LightRed(m.Message)
	if m.Won {
		text = pterm.LightGreen(m.Message)
	}
	return pbox.WithTitle(pterm.LightYellow("|GAME OVER|")).WithTitleTopCenter().Sprint(text)
}
