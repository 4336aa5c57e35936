package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/magnetsheet/pkg/pipeline"
)

// Palette shared by the command output and the review screen.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleOK       = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed   = lipgloss.NewStyle().Foreground(colorRed)
	styleNote     = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleSeparate = StyleDim.Render(" · ")
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleFailed.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleNote.Render("›") + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one delivered sheet file, a path or a URL.
func printFile(s string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(s))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

func printStats(magnets, pages, skipped int, cached bool) {
	fmt.Println(statsLine(magnets, pages, skipped, cached))
}

// statsLine summarizes a rendered sheet, for example
// "12 magnets · 1 page · 2 blank · cached".
func statsLine(magnets, pages, skipped int, cached bool) string {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d %s", magnets, plural(magnets, "magnet", "magnets"))),
		StyleDim.Render(fmt.Sprintf("%d %s", pages, plural(pages, "page", "pages"))),
	}
	if skipped > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d blank", skipped)))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleNote.Render("fresh"))
	}
	return "  " + strings.Join(parts, styleSeparate)
}

func printStages(s pipeline.Stats, attach bool) {
	fmt.Println(stagesLine(s, attach))
}

// stagesLine reports how long each Submit stage took. The upload stage is
// left out when files travelled as attachments.
func stagesLine(s pipeline.Stats, attach bool) string {
	stage := func(name string, d time.Duration) string {
		return StyleDim.Render(name+" ") + StyleNumber.Render(d.Round(time.Millisecond).String())
	}
	parts := []string{stage(string(pipeline.StageRender), s.RenderTime)}
	if !attach {
		parts = append(parts, stage(string(pipeline.StageUpload), s.UploadTime))
	}
	parts = append(parts, stage(string(pipeline.StageNotify), s.NotifyTime))
	return "  " + strings.Join(parts, styleSeparate)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
