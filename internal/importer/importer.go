package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tailorstudio/internal/domain"
	familysvc "tailorstudio/internal/service/family"
	individualsvc "tailorstudio/internal/service/individual"
)

type IndividualWriter interface {
	Create(ctx context.Context, in individualsvc.Input) (*domain.Individual, error)
}

type FamilyWriter interface {
	Create(ctx context.Context, in familysvc.Input) (*domain.FamilyDetail, error)
}

// CSVImporter reads an order spreadsheet export and creates orders through
// the services, so imported rows pass the same validation as API input.
//
// A row with an empty familyName is a standalone individual order.
// Consecutive rows sharing a familyName form one family order; the family's
// phone, delivery date and payment come from its first row.
type CSVImporter struct {
	reader      *csv.Reader
	individuals IndividualWriter
	families    FamilyWriter
}

func NewCSVImporter(r io.Reader, individuals IndividualWriter, families FamilyWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		individuals: individuals,
		families:    families,
	}
}

// Result counts imported orders.
type Result struct {
	Individuals int
	Families    int
}

func (r Result) Total() int {
	return r.Individuals + r.Families
}

type csvRow struct {
	line       int
	familyName string
	member     individualsvc.Input
}

// Run parses every row and creates the orders in file order. It stops at
// the first row that fails.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var family *familysvc.Input
	flush := func() error {
		if family == nil {
			return nil
		}
		if _, err := i.families.Create(ctx, *family); err != nil {
			return fmt.Errorf("create family %q: %w", family.FamilyName, err)
		}
		res.Families++
		family = nil
		return nil
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return res, err
		}
		if row == nil {
			continue
		}

		if family != nil && !strings.EqualFold(family.FamilyName, row.familyName) {
			if err := flush(); err != nil {
				return res, err
			}
		}

		if row.familyName == "" {
			if _, err := i.individuals.Create(ctx, row.member); err != nil {
				return res, fmt.Errorf("create individual on row %d: %w", row.line, err)
			}
			res.Individuals++
			continue
		}

		if family == nil {
			family = &familysvc.Input{
				FamilyName:     row.familyName,
				Phone:          row.member.Phone,
				SecondaryPhone: row.member.SecondaryPhone,
				Telegram:       row.member.Telegram,
				PaymentMethod:  domain.PaymentByFamily,
				Payment:        row.member.Payment,
				DeliveryDate:   row.member.DeliveryDate,
				Notes:          row.member.Notes,
			}
			row.member.Payment = nil
		}
		family.Members = append(family.Members, familysvc.MemberInput{Input: row.member})
	}

	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	first := pick(record, index, "firstName")
	familyName := pick(record, index, "familyName")
	if first == "" && familyName == "" {
		return nil, nil
	}

	p := &numberParser{record: record, index: index}
	in := individualsvc.Input{
		FirstName:      first,
		LastName:       pick(record, index, "lastName"),
		Sex:            domain.Sex(pick(record, index, "sex")),
		Phone:          pick(record, index, "phone"),
		SecondaryPhone: pick(record, index, "secondaryPhone"),
		Telegram:       pick(record, index, "telegram"),
		Instagram:      pick(record, index, "instagram"),
		DeliveryDate:   pick(record, index, "deliveryDate"),
		Notes:          pick(record, index, "notes"),
		ClothDetails: individualsvc.ClothInput{
			ShirtLength: p.float("shirtLength"),
			Shoulder:    p.float("shoulder"),
			Waist:       p.float("waist"),
			Wrist:       p.float("wrist"),
			Sleeve:      p.float("sleeve"),
			Colors:      splitList(pick(record, index, "colors")),
		},
	}
	if age := pick(record, index, "age"); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			p.fail("age", age)
		} else {
			in.Age = &n
		}
	}

	switch in.Sex {
	case domain.SexFemale:
		in.ClothDetails.Female = &domain.FemaleMeasurements{
			DressLength:  p.float("dressLength"),
			SleeveLength: p.float("sleeveLength"),
			Bust:         p.float("bust"),
			UnderBust:    p.float("underBust"),
			BustPoint:    p.float("bustPoint"),
			SleeveStyle:  pick(record, index, "sleeveStyle"),
			WaistStyle:   pick(record, index, "waistStyle"),
		}
	case domain.SexMale:
		in.ClothDetails.Male = &domain.MaleMeasurements{
			Chest:       p.float("chest"),
			Neck:        p.float("neck"),
			ClothType:   pick(record, index, "clothType"),
			SleeveStyle: pick(record, index, "sleeveStyle"),
			Netela:      pick(record, index, "netela"),
		}
	}

	if total := pick(record, index, "paymentTotal"); total != "" {
		in.Payment = &domain.Payment{
			Total:      p.float("paymentTotal"),
			FirstHalf:  domain.HalfPayment{Paid: p.bool("firstHalfPaid")},
			SecondHalf: domain.HalfPayment{Paid: p.bool("secondHalfPaid")},
		}
	}

	if p.err != nil {
		return nil, fmt.Errorf("row %d: %w", line, p.err)
	}
	return &csvRow{line: line, familyName: familyName, member: in}, nil
}

// numberParser reads typed columns and keeps the first parse error.
type numberParser struct {
	record []string
	index  map[string]int
	err    error
}

func (p *numberParser) float(col string) float64 {
	raw := pick(p.record, p.index, col)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(col, raw)
		return 0
	}
	return v
}

func (p *numberParser) bool(col string) bool {
	switch strings.ToLower(pick(p.record, p.index, col)) {
	case "", "0", "false", "no", "n":
		return false
	case "1", "true", "yes", "y":
		return true
	default:
		p.fail(col, pick(p.record, p.index, col))
		return false
	}
}

func (p *numberParser) fail(col, raw string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q", col, raw)
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
