package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLibraryName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want ParsedName
	}{
		{"common subject AR", "S1-AR-P0046-Zakaria", ParsedName{StageCode: "S1", SubjectCode: "AR"}},
		{"common subject AR other teacher", "S1-AR-P0138-Abdelrahman", ParsedName{StageCode: "S1", SubjectCode: "AR"}},
		{"common subject EN", "S1-EN-P0046-Teacher", ParsedName{StageCode: "S1", SubjectCode: "EN"}},
		{"common subject HX", "S1-HX-P0046-Teacher", ParsedName{StageCode: "S1", SubjectCode: "HX"}},
		{"AR after ISC means GEN", "S1-ISC-AR-P0022-Mohamed Sakr", ParsedName{StageCode: "S1", SectionCode: "GEN", SubjectCode: "ISC"}},
		{"AR after BIO means GEN", "S2-BIO-AR-Menna Gamal", ParsedName{StageCode: "S2", SectionCode: "GEN", SubjectCode: "BIO"}},
		{"AR after CH means GEN", "S2-CH-AR-P0022-Mohamed Sakr", ParsedName{StageCode: "S2", SectionCode: "GEN", SubjectCode: "CH"}},
		{"EN after MATH means LANG", "S1-MATH-EN-Teacher", ParsedName{StageCode: "S1", SectionCode: "LANG", SubjectCode: "MATH"}},
		{"AR after MATH means GEN", "S1-MATH-AR-Teacher", ParsedName{StageCode: "S1", SectionCode: "GEN", SubjectCode: "MATH"}},
		{"old prefix stripped, double dash", "(0LD)S1-MATH-EN--Shady", ParsedName{StageCode: "S1", SectionCode: "LANG", SubjectCode: "MATH"}},
		{"bracket prefix stripped", "[OLD] M2-PHYS-EN-Someone", ParsedName{StageCode: "M2", SectionCode: "LANG", SubjectCode: "PHYS"}},
		{"subject without section marker", "S1-PHYS-Teacher", ParsedName{StageCode: "S1", SubjectCode: "PHYS"}},
		{"middle stage", "M2-SS-P0001", ParsedName{StageCode: "M2", SubjectCode: "SS"}},
		{"junior stage", "J4-GEO-P0001", ParsedName{StageCode: "J4", SubjectCode: "GEO"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ParseLibraryName(tc.in))
		})
	}
}

func TestParseLibraryNameMalformed(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		require.Equal(t, ParsedName{}, ParseLibraryName(""))
	})

	t.Run("whitespace only", func(t *testing.T) {
		require.Equal(t, ParsedName{}, ParseLibraryName("   "))
	})

	t.Run("single token", func(t *testing.T) {
		require.Equal(t, ParsedName{}, ParseLibraryName("S1"))
	})

	t.Run("unrecognized stage token yields all-empty result", func(t *testing.T) {
		require.Equal(t, ParsedName{}, ParseLibraryName("Promo-Video-2024"))
	})

	t.Run("stage needs letter then digits", func(t *testing.T) {
		require.Equal(t, ParsedName{}, ParseLibraryName("1S-MATH-EN"))
		require.Equal(t, ParsedName{}, ParseLibraryName("SEN-MATH-EN"))
	})

	t.Run("never panics on junk", func(t *testing.T) {
		for _, s := range []string{"---", "(unclosed S1-AR", "S1--", "-S1-AR-"} {
			_ = ParseLibraryName(s)
		}
	})

	t.Run("lowercase input is normalized", func(t *testing.T) {
		require.Equal(t,
			ParsedName{StageCode: "S1", SectionCode: "LANG", SubjectCode: "MATH"},
			ParseLibraryName("s1-math-en-teacher"))
	})
}
