package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "CERO EUROS CON 00/100"},
		{1, "UN EURO CON 00/100"},
		{15, "QUINCE EUROS CON 00/100"},
		{21, "VEINTIÚN EUROS CON 00/100"},
		{42, "CUARENTA Y DOS EUROS CON 00/100"},
		{100, "CIEN EUROS CON 00/100"},
		{101, "CIENTO UN EUROS CON 00/100"},
		{550, "QUINIENTOS CINCUENTA EUROS CON 00/100"},
		{1000, "MIL EUROS CON 00/100"},
		{1500.50, "MIL QUINIENTOS EUROS CON 50/100"},
		{2026, "DOS MIL VEINTISÉIS EUROS CON 00/100"},
		{21000, "VEINTIÚN MIL EUROS CON 00/100"},
		{1000000, "UN MILLÓN DE EUROS CON 00/100"},
		{2500000, "DOS MILLONES QUINIENTOS MIL EUROS CON 00/100"},
		{123.45, "CIENTO VEINTITRÉS EUROS CON 45/100"},
		{99.99, "NOVENTA Y NUEVE EUROS CON 99/100"},
		{1.999, "DOS EUROS CON 00/100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NumberToWords(tt.amount), "amount %v", tt.amount)
	}
}
