package board

import "fmt"

// CellAt returns the cell number drawn at row, col. Row 0 is the top row
// and holds cells 100..91; rows alternate direction below it.
func CellAt(row, col int) int {
	base := Goal - row*Size
	if row%2 == 0 {
		return base - col
	}
	return base - (Size - 1 - col)
}

// Locate returns the row and column where cell is drawn.
func Locate(cell int) (row, col int, err error) {
	if cell < Start || cell > Goal {
		return 0, 0, fmt.Errorf("cell %d is off the board", cell)
	}
	row = (Goal - cell) / Size
	offset := (Goal - cell) % Size
	if row%2 == 0 {
		return row, offset, nil
	}
	return row, Size - 1 - offset, nil
}

// Layout returns every cell number in drawing order.
func Layout() [Size][Size]int {
	var grid [Size][Size]int
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			grid[row][col] = CellAt(row, col)
		}
	}
	return grid
}
