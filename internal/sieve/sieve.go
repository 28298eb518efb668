package sieve

import "io"

// Options bundles everything Run needs: the filter, transform, and
// output-destination configuration for one sieve invocation.
type Options struct {
	Filter    FilterOptions
	Transform TransformOptions
	Writer    Writer
}

// Run drives the classify -> filter -> transform -> write pipeline over
// r until EOF, stopping (and returning) on the first write or parse
// error.
func Run(r io.Reader, opts Options) error {
	parser := NewParser(r)
	filter := &SectionFilter{Options: opts.Filter}
	transform := &SectionTransform{Options: opts.Transform}

	for {
		section, err := parser.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if filter.Filtered(section) {
			continue
		}
		transform.Apply(section)
		if err := opts.Writer.Write(section); err != nil {
			return err
		}
	}
}
