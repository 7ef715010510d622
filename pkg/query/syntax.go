package query

// Syntax returns the user-facing help text for the query mini-language.
// The catalogtool CLI does not print it.
func Syntax() string {
	return `Search syntax:
  ext:<e>              restrict to an extension, e.g. ext:pdf
  size:>N[kb|mb|gb]     size greater than N, e.g. size:>100mb
  size:<N[kb|mb|gb]     size less than N
  dm:today              modified today
  dm:<k>d               modified within the last k days
  dm:<k>h               modified within the last k hours
  folder:<text>         folders only; text (if any) is also a keyword
  file:<text>           files only; text (if any) is also a keyword
  path:<substr>         full path contains substr
  <word>                bare keyword; matched as a substring of the filename

Bare keywords are ANDed together. Tokens containing ':' are never treated
as bare keywords, even for an unrecognized modifier.`
}
