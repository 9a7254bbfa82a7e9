package tui

import "github.com/charmbracelet/lipgloss"

// scrollBlocks returns the blocks to show in height lines so that selected
// stays visible. Blocks are separated by newlines.
func scrollBlocks(blocks []string, selected, height int) []string {
	if height <= 0 || len(blocks) == 0 {
		return blocks
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= len(blocks) {
		selected = len(blocks) - 1
	}
	start := 0
	used := 0
	for i := 0; i <= selected; i++ {
		used += lipgloss.Height(blocks[i])
		for used > height && start < i {
			used -= lipgloss.Height(blocks[start])
			start++
		}
	}
	return blocks[start:]
}
