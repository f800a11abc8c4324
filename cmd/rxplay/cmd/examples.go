package cmd

import (
	"fmt"
	"io"

	"github.com/xinjiayu/rxcore"
)

// example is one page of the transforming operators walkthrough.
type example struct {
	name        string
	description string
	run         func(out *printer, bag *rxcore.DisposeBag)
}

// printer writes one value per line and remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) println(v any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, v)
}

type player struct {
	score *rxcore.Variable[int]
}

var examples = []example{
	{
		name:        "map",
		description: "square every element",
		run: func(out *printer, bag *rxcore.DisposeBag) {
			rxcore.AddTo(
				rxcore.Of(1, 2, 3).
					Map(func(x int) int { return x * x }).
					SubscribeNext(func(v int) { out.println(v) }),
				bag)
		},
	},
	{
		name:        "flatMap",
		description: "follow the score of every player ever selected",
		run: func(out *printer, bag *rxcore.DisposeBag) {
			runPlayers(out, bag, rxcore.FlatMap[*player, int])
		},
	},
	{
		name:        "flatMapLatest",
		description: "follow the score of the selected player only",
		run: func(out *printer, bag *rxcore.DisposeBag) {
			runPlayers(out, bag, rxcore.FlatMapLatest[*player, int])
		},
	},
	{
		name:        "scan",
		description: "running sum starting from 1",
		run: func(out *printer, bag *rxcore.DisposeBag) {
			rxcore.AddTo(
				rxcore.Of(10, 100, 1000).
					Scan(1, func(aggregate, next int) int { return aggregate + next }).
					SubscribeNext(func(v int) { out.println(v) }),
				bag)
		},
	},
}

type flattener func(rxcore.Observable[*player], func(*player) rxcore.Observable[int]) rxcore.Observable[int]

// runPlayers switches the selected player and changes both scores. With
// FlatMap the update of the first player after the switch is still printed;
// with FlatMapLatest it is not.
func runPlayers(out *printer, bag *rxcore.DisposeBag, flatten flattener) {
	first := &player{score: rxcore.NewVariable(80)}
	second := &player{score: rxcore.NewVariable(90)}

	selected := rxcore.NewVariable(first)

	rxcore.AddTo(
		flatten(selected.AsObservable(), func(p *player) rxcore.Observable[int] {
			return p.score.AsObservable()
		}).SubscribeNext(func(v int) { out.println(v) }),
		bag)

	first.score.Set(85)
	selected.Set(second)
	first.score.Set(95)
	second.score.Set(100)
}

// runExample prints the section marker and the output of e. Every
// subscription made by the example is disposed before it returns.
func runExample(w io.Writer, e example) error {
	out := &printer{w: w}
	out.println(fmt.Sprintf("\n--- %s example ---", e.name))

	bag := rxcore.NewDisposeBag()
	defer bag.Dispose()
	e.run(out, bag)

	return out.err
}

func findExample(name string) (example, bool) {
	for _, e := range examples {
		if e.name == name {
			return e, true
		}
	}
	return example{}, false
}
