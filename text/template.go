package text

import (
	"bufio"
	"io"
	"text/template"
)

// Execute runs tpl with ctx and writes its output to w without the blank
// lines left by the actions of the template.
func Execute(tpl *template.Template, w io.Writer, ctx interface{}) error {
	var (
		pr, pw = io.Pipe()
		scan   = bufio.NewScanner(pr)
		errch  = make(chan error, 1)
	)
	defer func() {
		close(errch)
		pr.Close()
	}()
	go func() {
		err := tpl.Execute(pw, ctx)
		pw.CloseWithError(err)
		errch <- err
	}()
	for scan.Scan() {
		line := scan.Text()
		if line == "" {
			continue
		}
		io.WriteString(w, line)
		io.WriteString(w, "\n")
	}
	// unblock the template when the scanner stops before the end of its output
	pr.CloseWithError(scan.Err())
	if err := <-errch; err != nil {
		if serr := scan.Err(); serr != nil {
			return serr
		}
		return err
	}
	return scan.Err()
}
