// Command resp3dump decodes a stream of RESP3 frames from a file or stdin
// and prints each one, one line of JSON-ish text per frame, until the input
// is exhausted. It exists to exercise resp3.Reader end to end, the way a
// teacher's own small cmd/ tools exist to exercise their libraries rather
// than to be a product in themselves.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shawwn/resp3"
)

func main() {
	app := &cli.App{
		Name:  "resp3dump",
		Usage: "decode a RESP3 byte stream and print each frame",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read frames from `FILE` instead of stdin",
			},
			&cli.BoolFlag{
				Name:  "diagnostic",
				Usage: "log every frame and push via resp3.DiagnosticReadLoggingHooks",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	in := os.Stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sink := resp3.PushSinkFunc(func(frame []resp3.DecodedValue) {
		fmt.Print("push: ")
		dump(os.Stdout, resp3.DecodedValue{Kind: resp3.KindArray, Elems: frame})
		fmt.Println()
	})

	reader := resp3.NewReader(resp3.NewBufioSource(in, 0), resp3.WithPushSink(sink))

	ctx := context.Background()
	if c.Bool("diagnostic") {
		ctx = resp3.WithReadTrace(ctx, resp3.DiagnosticReadLoggingHooks)
	}

	for {
		v, err := reader.Read(ctx)
		if err != nil {
			var eof *resp3.EndOfInputError
			if errors.As(err, &eof) {
				return nil
			}
			return err
		}
		dump(os.Stdout, v)
		fmt.Println()
	}
}

// dump renders a DecodedValue as a compact, human-readable line. It is
// deliberately not a full JSON encoder: binary blob payloads and RESP3's
// distinct error/string kinds don't map cleanly onto JSON's type system, and
// encoding is out of scope for this module.
func dump(w io.Writer, v resp3.DecodedValue) {
	switch v.Kind {
	case resp3.KindNull:
		fmt.Fprint(w, "nil")
	case resp3.KindBoolean:
		fmt.Fprintf(w, "%v", v.Bool)
	case resp3.KindInteger:
		fmt.Fprintf(w, "%d", v.Int)
	case resp3.KindDouble:
		fmt.Fprintf(w, "%g", v.Double)
	case resp3.KindBigNumber:
		fmt.Fprintf(w, "%s", v.Big.String())
	case resp3.KindBlobString, resp3.KindSimpleString:
		fmt.Fprintf(w, "%q", v.String())
	case resp3.KindVerbatim:
		format, payload, ok := v.VerbatimFormat()
		if ok {
			fmt.Fprintf(w, "%s:%q", format, payload)
		} else {
			fmt.Fprintf(w, "%q", v.String())
		}
	case resp3.KindBlobError, resp3.KindSimpleError:
		fmt.Fprintf(w, "error(%q)", v.String())
	case resp3.KindArray, resp3.KindSet:
		if v.Kind == resp3.KindSet {
			fmt.Fprint(w, "set{")
		} else {
			fmt.Fprint(w, "[")
		}
		for i, e := range v.Elems {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			dump(w, e)
		}
		if v.Kind == resp3.KindSet {
			fmt.Fprint(w, "}")
		} else {
			fmt.Fprint(w, "]")
		}
	case resp3.KindMap:
		fmt.Fprint(w, "{")
		for i, e := range v.Entries {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			dump(w, e.Key)
			fmt.Fprint(w, ": ")
			dump(w, e.Value)
		}
		fmt.Fprint(w, "}")
	case resp3.KindAttributes:
		fmt.Fprint(w, "attrs(")
		if v.Props != nil {
			dump(w, *v.Props)
		}
		fmt.Fprint(w, ") ")
		if v.Attr != nil {
			dump(w, *v.Attr)
		}
	default:
		fmt.Fprintf(w, "<%s>", v.Kind)
	}
}
