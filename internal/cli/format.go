package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Console tags. Scripts downstream grep for these, keep them stable.
const (
	tagRoot    = "根目录"
	tagPlan    = "计划"
	tagSubject = "受试者"
	tagSession = "会话"
	tagSkip    = "跳过"
	tagDryRun  = "干运行"
	tagDone    = "完成"
	tagInfo    = "信息"
	tagError   = "错误"
)

var (
	// Color functions - fatih/color disables them when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)

	// stdout and stderr are swapped for the command's writers on every run.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	numbers = message.NewPrinter(language.English)
)

// printTag prints "[tag] msg" with the tag colored.
func printTag(clr *color.Color, tag, msg string) {
	_, _ = clr.Fprintf(stdout, "[%s]", tag)
	if msg != "" {
		_, _ = fmt.Fprintf(stdout, " %s", msg)
	}
	_, _ = fmt.Fprintln(stdout)
}

// PrintRoot prints the resolved dataset root.
func PrintRoot(root string) {
	printTag(headerColor, tagRoot, root)
}

// PrintPlanHeader prints the line introducing the plan.
func PrintPlanHeader() {
	printTag(headerColor, tagPlan, "")
}

// PrintPlanEntry prints one planned rename, indented under the plan header.
func PrintPlanEntry(kind, src, dst string, conflict string) {
	_, _ = fmt.Fprint(stdout, "  ")
	_, _ = infoColor.Fprintf(stdout, "[%s]", kind)
	_, _ = fmt.Fprintf(stdout, " %s -> %s", src, dst)
	if conflict != "" {
		_, _ = dimColor.Fprintf(stdout, "  (%s)", conflict)
	}
	_, _ = fmt.Fprintln(stdout)
}

// PrintRenamed prints an executed subject or session rename.
func PrintRenamed(tag, src, dst string) {
	printTag(successColor, tag, fmt.Sprintf("%s -> %s", src, dst))
}

// PrintSkip prints a skipped operation.
func PrintSkip(msg string) {
	printTag(warningColor, tagSkip, msg)
}

// PrintDryRun prints the dry-run notice.
func PrintDryRun(msg string) {
	printTag(warningColor, tagDryRun, msg)
}

// PrintDone prints the completion marker with an optional summary.
func PrintDone(msg string) {
	printTag(successColor, tagDone, msg)
}

// PrintInfo prints an informational message.
func PrintInfo(msg string) {
	printTag(infoColor, tagInfo, msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(stderr, "[%s]", tagError)
	_, _ = fmt.Fprintf(stderr, " %s\n", msg)
}

// PrintSection prints a section header
func PrintSection(title string) {
	_, _ = fmt.Fprintln(stdout)
	_, _ = headerColor.Fprintf(stdout, "▸ %s\n", title)
	_, _ = fmt.Fprintln(stdout)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	_, _ = labelColor.Fprintf(stdout, "  %s: ", label)
	_, _ = valueColor.Fprintln(stdout, value)
}

// PrintList prints a list of items with bullet points
func PrintList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(stdout, "%s• %s\n", indentStr, item)
	}
}

// PrintTable prints a simple table
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	// Calculate column widths
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	// Print header
	_, _ = fmt.Fprint(stdout, "  ")
	for i, header := range headers {
		if i > 0 {
			_, _ = fmt.Fprint(stdout, "  ")
		}
		_, _ = headerColor.Fprintf(stdout, "%-*s", colWidths[i], header)
	}
	_, _ = fmt.Fprintln(stdout)

	// Print separator
	_, _ = fmt.Fprint(stdout, "  ")
	for i, width := range colWidths {
		if i > 0 {
			_, _ = fmt.Fprint(stdout, "  ")
		}
		_, _ = fmt.Fprint(stdout, strings.Repeat("-", width))
	}
	_, _ = fmt.Fprintln(stdout)

	// Print rows
	for _, row := range rows {
		_, _ = fmt.Fprint(stdout, "  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				_, _ = fmt.Fprint(stdout, "  ")
			}
			_, _ = valueColor.Fprintf(stdout, "%-*s", colWidths[i], cell)
		}
		_, _ = fmt.Fprintln(stdout)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	_, _ = dimColor.Fprintf(stdout, "  %s\n", msg)
}

// PrintCount formats a count with thousands separators and the right noun.
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return numbers.Sprintf("%d %s", count, singular)
	}
	return numbers.Sprintf("%d %s", count, plural)
}
