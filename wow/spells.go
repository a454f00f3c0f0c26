package wow

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"hash/fnv"
	"io"
	"strconv"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
)

type SpellData struct {
	ID       int
	Name     string
	Icon     string
	Cooldown int // ms
	Hasted   bool

	// haste granted while the spell is active as a buff, 0.3 = 30 %
	Haste float64
}

var (
	//go:embed spells.csv
	spellsCsv []byte

	spells = make(map[int]SpellData)

	// DataHash changes whenever the spell table does.
	DataHash uint32
)

func init() {
	err := loadSpells(bytes.NewReader(spellsCsv))
	if err != nil {
		panic(err)
	}

	h := fnv.New32a()
	h.Write(spellsCsv)
	DataHash = h.Sum32()
}

func loadSpells(r io.Reader) error {
	sr, _ := utfbom.Skip(r)

	cr := csv.NewReader(sr)
	cr.FieldsPerRecord = 6

	header := true
	for {
		d, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if header {
			header = false
			continue
		}

		id, err := strconv.Atoi(d[0])
		if err != nil {
			return errors.Wrapf(err, "spell id %q", d[0])
		}

		sd := SpellData{
			ID:     id,
			Name:   d[1],
			Icon:   d[2],
			Hasted: d[4] == "1",
		}
		if d[3] != "" {
			sd.Cooldown, err = strconv.Atoi(d[3])
			if err != nil {
				return errors.Wrapf(err, "cooldown of %d", id)
			}
		}
		if d[5] != "" {
			sd.Haste, err = strconv.ParseFloat(d[5], 64)
			if err != nil {
				return errors.Wrapf(err, "haste of %d", id)
			}
		}

		spells[id] = sd
	}

	return nil
}

// Spell returns the table entry for id.
func Spell(id int) (SpellData, bool) {
	sd, ok := spells[id]
	return sd, ok
}

// SpellName falls back to the numeric id for spells missing from the table.
func SpellName(id int) string {
	if sd, ok := spells[id]; ok {
		return sd.Name
	}
	return strconv.Itoa(id)
}

func Cooldown(id int) (ms int, hasted bool) {
	sd := spells[id]
	return sd.Cooldown, sd.Hasted
}

func HasteBuff(id int) float64 {
	return spells[id].Haste
}

// HasteBuffs lists every spell that grants haste as a buff.
func HasteBuffs() map[int]float64 {
	r := make(map[int]float64)
	for id, sd := range spells {
		if sd.Haste > 0 {
			r[id] = sd.Haste
		}
	}
	return r
}
