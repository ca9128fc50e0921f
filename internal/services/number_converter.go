package services

import (
	"fmt"
	"math"
	"strings"
)

// NumberToWords renders an amount for the "importe en letras" line of
// generated documents. Example: 1500.50 -> "MIL QUINIENTOS EUROS CON 50/100"
func NumberToWords(amount float64) string {
	integerPart := int64(amount)
	cents := int64(math.Round((amount - float64(integerPart)) * 100))
	if cents == 100 {
		integerPart++
		cents = 0
	}

	words := apocopate(integerInWords(integerPart))

	currency := "EUROS"
	if integerPart == 1 {
		currency = "EURO"
	}
	// "UN MILLÓN DE EUROS", but "UN MILLÓN DOSCIENTOS MIL EUROS"
	if strings.HasSuffix(words, "MILLÓN") || strings.HasSuffix(words, "MILLONES") {
		currency = "DE " + currency
	}

	return fmt.Sprintf("%s %s CON %02d/100", words, currency, cents)
}

// integerInWords spells a non-negative integer in Spanish, grouping by
// millions and thousands.
func integerInWords(n int64) string {
	if n == 0 {
		return "CERO"
	}

	var parts []string
	if m := n / 1000000; m > 0 {
		if m == 1 {
			parts = append(parts, "UN MILLÓN")
		} else {
			parts = append(parts, apocopate(integerInWords(m))+" MILLONES")
		}
		n %= 1000000
	}
	if k := n / 1000; k > 0 {
		if k == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, apocopate(belowThousand(int(k)))+" MIL")
		}
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(int(n)))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int) string {
	if n == 100 {
		return "CIEN"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundredWords[h])
	}
	switch r := n % 100; {
	case r == 0:
	case r < 30:
		parts = append(parts, smallWords[r])
	case r%10 == 0:
		parts = append(parts, tenWords[r/10])
	default:
		parts = append(parts, tenWords[r/10]+" Y "+smallWords[r%10])
	}
	return strings.Join(parts, " ")
}

// apocopate shortens a trailing UNO before a masculine noun: "VEINTIUNO
// MIL" and "CUARENTA Y UNO EUROS" are not Spanish.
func apocopate(words string) string {
	if strings.HasSuffix(words, "VEINTIUNO") {
		return strings.TrimSuffix(words, "VEINTIUNO") + "VEINTIÚN"
	}
	if strings.HasSuffix(words, "UNO") {
		return strings.TrimSuffix(words, "UNO") + "UN"
	}
	return words
}

var smallWords = [...]string{
	"CERO", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE",
	"DIECISÉIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE",
	"VEINTE", "VEINTIUNO", "VEINTIDÓS", "VEINTITRÉS", "VEINTICUATRO",
	"VEINTICINCO", "VEINTISÉIS", "VEINTISIETE", "VEINTIOCHO", "VEINTINUEVE",
}

var tenWords = [...]string{
	"", "DIEZ", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var hundredWords = [...]string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS",
	"SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}
