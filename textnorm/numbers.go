package textnorm

import (
	"strconv"
	"strings"
)

var unitsPT = [...]string{
	"", "um", "dois", "três", "quatro", "cinco",
	"seis", "sete", "oito", "nove", "dez",
	"onze", "doze", "treze", "quatorze", "quinze",
	"dezesseis", "dezessete", "dezoito", "dezenove",
}

var tensPT = [...]string{
	"", "", "vinte", "trinta", "quarenta", "cinquenta",
	"sessenta", "setenta", "oitenta", "noventa",
}

var hundredsPT = [...]string{
	"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
	"seiscentos", "setecentos", "oitocentos", "novecentos",
}

// numberToWordsPT converts an integer 0-999 to Portuguese words.
func numberToWordsPT(n int) string {
	if n == 0 {
		return "zero"
	}
	if n == 100 {
		return "cem"
	}

	var b strings.Builder
	h := n / 100
	t := (n % 100) / 10
	u := n % 10

	if h > 0 {
		b.WriteString(hundredsPT[h])
	}

	if n%100 > 0 {
		if h > 0 {
			b.WriteString(" e ")
		}
		if n%100 < 20 {
			b.WriteString(unitsPT[n%100])
		} else {
			b.WriteString(tensPT[t])
			if u > 0 {
				b.WriteString(" e ")
				b.WriteString(unitsPT[u])
			}
		}
	}
	return b.String()
}

// FullNumberToWords converts an arbitrary integer to Portuguese words,
// handling thousands, millions and billions the way the original
// engine's full_number_to_words_pt does.
func FullNumberToWords(n int64) string {
	if n == 0 {
		return "zero"
	}

	var b strings.Builder
	if n < 0 {
		b.WriteString("menos ")
		n = -n
	}

	if n >= 1000000000 {
		billions := n / 1000000000
		b.WriteString(numberToWordsPT(int(billions)))
		if billions == 1 {
			b.WriteString(" bilhão")
		} else {
			b.WriteString(" bilhões")
		}
		n %= 1000000000
		if n > 0 {
			b.WriteString(" e ")
		}
	}

	if n >= 1000000 {
		millions := n / 1000000
		b.WriteString(numberToWordsPT(int(millions)))
		if millions == 1 {
			b.WriteString(" milhão")
		} else {
			b.WriteString(" milhões")
		}
		n %= 1000000
		if n > 0 {
			b.WriteString(" e ")
		}
	}

	if n >= 1000 {
		thousands := n / 1000
		if thousands == 1 {
			b.WriteString("mil")
		} else {
			b.WriteString(numberToWordsPT(int(thousands)))
			b.WriteString(" mil")
		}
		n %= 1000
		if n > 0 {
			if n < 100 {
				b.WriteString(" e ")
			} else {
				b.WriteString(" ")
			}
		}
	}

	if n > 0 {
		b.WriteString(numberToWordsPT(int(n)))
	}

	return b.String()
}

// ExpandNumbers walks text and replaces every run of ASCII digits with
// its Portuguese word expansion, leaving everything else untouched.
func ExpandNumbers(text string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c >= '0' && c <= '9' {
			start := i
			for i < len(text) && text[i] >= '0' && text[i] <= '9' {
				i++
			}
			n, err := strconv.ParseInt(text[start:i], 10, 64)
			if err != nil {
				b.WriteString(text[start:i])
				continue
			}
			b.WriteString(FullNumberToWords(n))
		} else {
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
