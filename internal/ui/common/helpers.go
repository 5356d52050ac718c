// Package common 终端界面共用的样式与渲染函数
package common

import "github.com/mattn/go-runewidth"

const ellipsis = "…"

// TruncateName 按终端显示宽度截断玩家名，中文占两列
func TruncateName(name string, width int) string {
	if runewidth.StringWidth(name) <= width {
		return name
	}
	return runewidth.Truncate(name, width, ellipsis)
}

// PadName 截断后右侧补空格到固定列宽，用于表格对齐
func PadName(name string, width int) string {
	return runewidth.FillRight(TruncateName(name, width), width)
}
