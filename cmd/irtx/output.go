package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sparques/irtx"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	markStyle = cellStyle.Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))
)

func statusStyle(s irtx.Status) lipgloss.Style {
	switch s {
	case irtx.Error:
		return errorStyle
	case irtx.Idle:
		return okStyle
	}
	return warningStyle
}

func level(i int) string {
	if i%2 == 0 {
		return "mark"
	}
	return "space"
}

// pulseTable renders pulses with their polarity, length and start offset.
func pulseTable(pulses []uint32, freq uint32) string {
	rows := make([][]string, 0, len(pulses))
	var start uint64
	for i, d := range pulses {
		rows = append(rows, []string{
			strconv.Itoa(i),
			level(i),
			strconv.FormatUint(start, 10),
			strconv.FormatUint(uint64(d), 10),
			strconv.FormatInt(irtx.Duration(d, freq).Microseconds(), 10),
		})
		start += uint64(d)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("#", "level", "start", "ticks", "us").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0 && col == 1:
				return markStyle
			}
			return cellStyle
		}).
		String()
}

func trainDuration(pulses []uint32, freq uint32) (ticks uint64, us int64) {
	for _, d := range pulses {
		ticks += uint64(d)
	}
	if freq > 0 {
		us = int64(ticks * 1_000_000 / uint64(freq))
	}
	return ticks, us
}

func printTrain(w io.Writer, name string, pulses []uint32, freq uint32, capacity int) {
	ticks, us := trainDuration(pulses, freq)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: %d pulses, %d ticks @ %d Hz (%dus)", name, len(pulses), ticks, freq, us)))
	if len(pulses) == capacity {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("buffer full at %d pulses, the train may be truncated", capacity)))
	}
	if len(pulses) > 0 {
		fmt.Fprintln(w, pulseTable(pulses, freq))
	}
}
