package console_test

import (
	"fmt"

	"github.com/jonwraymond/playground/console"
)

func ExampleFormat() {
	fmt.Println(console.Format("hi", 42, nil, console.Undefined))
	// Output:
	// "hi" 42 null undefined
}

func ExampleLogSink() {
	region := console.NewBufferRegion()
	sink := console.NewLogSink(region)

	sink.Append(console.KindLog, "Fruits:", []any{"apple", "banana"})
	sink.Append(console.KindWarn, "careful")

	for _, line := range region.Lines() {
		fmt.Printf("[%s] %s\n", line.Kind, line.Text)
	}
	// Output:
	// [log] "Fruits:" [
	//   "apple",
	//   "banana"
	// ]
	// [warn] "careful"
}
