package handlers

import (
	"embed"
	"html/template"

	"github.com/gin-contrib/multitemplate"

	"snakeladder/board"
	"snakeladder/game"
	"snakeladder/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRenderer parses the embedded page and partial templates.
func NewRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	page := func(name string, files ...string) {
		paths := []string{"templates/base.html"}
		for _, f := range files {
			paths = append(paths, "templates/"+f)
		}
		r.Add(name, template.Must(template.New("base.html").ParseFS(templateFS, paths...)))
	}
	page("game.html", "game.html", "board.html")
	page("404.html", "404.html")

	r.Add("board.html", template.Must(template.New("board.html").ParseFS(templateFS, "templates/board.html")))
	return r
}

type tokenView struct {
	Player int
	Name   string
}

type cellView struct {
	Number int
	Kind   board.Kind
	Target int
	Tokens []tokenView
}

type boardView struct {
	GameID   string
	Version  uint64
	Rows     [][]cellView
	TurnName string
	Dice     int
	Winner   string
	// Error describes a rejected action.
	Error    string
}

func newBoardView(g *game.Game, snap models.Snapshot) boardView {
	variant := g.Variant()
	names := g.PlayerNames()

	view := boardView{
		GameID:   g.ID,
		Version:  snap.Version,
		TurnName: names[snap.Turn],
	}
	if snap.Dice != nil {
		view.Dice = *snap.Dice
	}
	if snap.HasWinner() {
		view.Winner = *snap.Winner
	}

	layout := board.Layout()
	view.Rows = make([][]cellView, len(layout))
	for row, cells := range layout {
		view.Rows[row] = make([]cellView, len(cells))
		for col, number := range cells {
			cell := cellView{Number: number}
			if r, ok := variant.RedirectAt(number); ok {
				cell.Kind = r.Kind
				cell.Target = r.To
			}
			view.Rows[row][col] = cell
		}
	}
	for player, pos := range snap.PlayerPositions {
		row, col, err := board.Locate(pos)
		if err != nil {
			continue
		}
		cell := &view.Rows[row][col]
		cell.Tokens = append(cell.Tokens, tokenView{Player: player, Name: names[player]})
	}
	return view
}
