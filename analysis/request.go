package analysis

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

const (
	reportCodeLen = 16
	maxFights     = 5
)

type RequestData struct {
	ReportCode string `json:"report"`
	FightIDs   []int  `json:"fights"`
	PlayerName string `json:"player"`

	// recaptcha response, checked by the frontend and never hashed
	Token string `json:"token,omitempty"`
}

func isReportCode(s string) bool {
	if len(s) != reportCodeLen {
		return false
	}
	for _, c := range s {
		if c > unicode.MaxASCII || !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return false
		}
	}
	return true
}

// CheckOptionValidation trims the request and sorts its fights. Duplicate
// fight ids are dropped.
func (rd *RequestData) CheckOptionValidation() bool {
	rd.ReportCode = strings.TrimSpace(rd.ReportCode)
	rd.PlayerName = strings.TrimSpace(rd.PlayerName)

	lenPlayerName := utf8.RuneCountInString(rd.PlayerName)

	switch {
	case !isReportCode(rd.ReportCode):
	case lenPlayerName < 2:
	case lenPlayerName > 12:
	case len(rd.FightIDs) == 0:
	case len(rd.FightIDs) > maxFights:
	default:
		sort.Ints(rd.FightIDs)

		fights := rd.FightIDs[:0]
		for i, id := range rd.FightIDs {
			if id <= 0 {
				return false
			}
			if i > 0 && id == rd.FightIDs[i-1] {
				continue
			}
			fights = append(fights, id)
		}
		rd.FightIDs = fights

		return true
	}

	return false
}

// Hash identifies the rendered result. Report codes are case sensitive,
// player names are not.
func (rd *RequestData) Hash() uint64 {
	h := fnv.New64()

	b := make([]byte, 8)
	appendLower := func(s string) {
		for _, c := range s {
			r := unicode.ToLower(c)

			if r < utf8.RuneSelf {
				b[0] = byte(r)
				h.Write(b[:1])
			} else {
				n := utf8.EncodeRune(b, r)
				h.Write(b[:n])
			}
		}
		h.Write([]byte{'|'})
	}

	fmt.Fprint(
		h,
		wow.DataHash, "|",
		rd.ReportCode, "|",
	)
	appendLower(rd.PlayerName)

	fights := make([]int, len(rd.FightIDs))
	copy(fights, rd.FightIDs)
	sort.Ints(fights)
	for _, id := range fights {
		fmt.Fprint(h, id, "|")
	}

	return h.Sum64()
}
