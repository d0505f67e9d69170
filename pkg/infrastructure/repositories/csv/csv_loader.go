package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/repositories"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
	"github.com/vsinha/factorysim/pkg/infrastructure/repositories/memory"
)

// File names inside an instance directory
const (
	TransportersFile = "transporters.csv"
	MaterialsFile    = "materials.csv"
	ProductsFile     = "products.csv"
	ProductionsFile  = "productions.csv"
	OrdersFile       = "orders.csv"
	StockFile        = "stock.csv"
)

// Delimiter separates the columns of every file
const Delimiter = ';'

// Options describe the parts of an instance that are not part of the CSV files
type Options struct {
	Drivers           int
	WarehouseCapacity entities.Quantity
	// OrdersFile overrides the default orders file name, so one directory can hold
	// several order lists
	OrdersFile     string
	FactoryOptions []simulation.Option
}

// Loader handles loading instances from a directory of CSV files
type Loader struct {
	options  Options
	validate *validator.Validate
}

// NewLoader creates a new CSV loader
func NewLoader(options Options) *Loader {
	if options.OrdersFile == "" {
		options.OrdersFile = OrdersFile
	}
	return &Loader{options: options, validate: validator.New()}
}

var _ repositories.InstanceLoader = (*Loader)(nil)

type transporterRow struct {
	Name     string `validate:"required"`
	Zone     string
	Type     string `validate:"required"`
	Engine   string `validate:"required"`
	Capacity int64  `validate:"gt=0"`
}

type itemRow struct {
	ID         string   `validate:"required"`
	Name       string   `validate:"-"`
	Zone       string   `validate:"-"`
	Types      []string `validate:"min=1"`
	Engine     string   `validate:"-"`
	Area       int64    `validate:"gte=0"`
	TravelTime int64    `validate:"gte=0"`
}

type productionRow struct {
	Name           string `validate:"-"`
	InputBuffer    int    `validate:"gte=0"`
	OutputBuffer   int    `validate:"gte=0"`
	Output         string `validate:"required"`
	BatchSize      int64  `validate:"gt=0"`
	ProductionTime int64  `validate:"gte=0"`
	Inputs         string `validate:"-"`
}

type orderRow struct {
	OrderNr    string          `validate:"required"`
	Item       string          `validate:"required"`
	Amount     int64           `validate:"gt=0"`
	Income     decimal.Decimal `validate:"-"`
	TravelTime int64           `validate:"gte=0"`
}

// Load reads the instance in the directory source
func (l *Loader) Load(ctx context.Context, source string) (*simulation.Instance, error) {
	b := memory.NewInstanceBuilder()

	parseProduction, finishProductions := l.productionParser(b)
	steps := []struct {
		file     string
		optional bool
		parse    func([]string) error
		finish   func() error
	}{
		{file: MaterialsFile, parse: func(r []string) error { return l.parseItem(b, r, entities.MaterialKind) }},
		{file: ProductsFile, parse: func(r []string) error { return l.parseItem(b, r, entities.ProductKind) }},
		{file: TransportersFile, optional: true, parse: func(r []string) error { return l.parseTransporter(b, r) }},
		{file: ProductionsFile, parse: parseProduction, finish: finishProductions},
		{file: StockFile, optional: true, parse: func(r []string) error { return l.parseStock(b, r) }},
		{file: l.options.OrdersFile, parse: func(r []string) error { return l.parseOrder(b, r) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.loadFile(filepath.Join(source, step.file), step.optional, step.parse); err != nil {
			return nil, err
		}
		if step.finish != nil {
			if err := step.finish(); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", repositories.ErrMalformedSource, step.file, err)
			}
		}
	}

	b.AddDrivers(l.options.Drivers)
	return b.Build(filepath.Base(filepath.Clean(source)), l.options.WarehouseCapacity, l.options.FactoryOptions...)
}

// loadFile reads one file, skips its header and blank lines, and feeds the rows to
// parse with row-numbered errors
func (l *Loader) loadFile(filename string, optional bool, parse func([]string) error) error {
	file, err := os.Open(filename)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: failed to open %s: %v", repositories.ErrMalformedSource, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	base := filepath.Base(filename)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to read %s: %v", repositories.ErrMalformedSource, base, err)
		}
		if row == 1 || blank(record) {
			continue
		}
		if err := parse(trim(record)); err != nil {
			if errors.Is(err, repositories.ErrUnknownItem) || errors.Is(err, repositories.ErrMalformedSource) {
				return fmt.Errorf("%s row %d: %w", base, row, err)
			}
			return fmt.Errorf("%w: %s row %d: %v", repositories.ErrMalformedSource, base, row, err)
		}
	}
}

// parseItem reads id;name;zone;transport_types;engine;area;travel_time
func (l *Loader) parseItem(b *memory.InstanceBuilder, record []string, kind entities.ItemKind) error {
	if err := columns(record, 7); err != nil {
		return err
	}
	row := itemRow{ID: record[0], Name: record[1], Zone: record[2], Types: splitList(record[3]), Engine: record[4]}
	var err error
	if row.Area, err = parseInt(record[5], "area"); err != nil {
		return err
	}
	if row.TravelTime, err = parseInt(record[6], "travel_time"); err != nil {
		return err
	}
	if err := l.check(row); err != nil {
		return err
	}

	profile := entities.TransportProfile{Zone: row.Zone, Engine: row.Engine, TransportTypes: row.Types}
	var item entities.Item
	switch kind {
	case entities.MaterialKind:
		item, err = entities.NewMaterial(row.ID, row.Name, entities.Quantity(row.Area), profile, entities.TimeStep(row.TravelTime))
	default:
		item, err = entities.NewProduct(row.ID, row.Name, entities.Quantity(row.Area), profile, entities.TimeStep(row.TravelTime))
	}
	if err != nil {
		return err
	}
	return b.Catalog.AddItem(item)
}

// parseTransporter reads name;zone;type;engine;capacity. A blank name is derived from
// the other columns.
func (l *Loader) parseTransporter(b *memory.InstanceBuilder, record []string) error {
	if err := columns(record, 5); err != nil {
		return err
	}
	row := transporterRow{Name: record[0], Zone: record[1], Type: record[2], Engine: record[3]}
	var err error
	if row.Capacity, err = parseInt(record[4], "capacity"); err != nil {
		return err
	}
	if row.Name == "" {
		row.Name = strings.Join([]string{row.Zone, row.Type, row.Engine, record[4]}, "_")
	}
	if err := l.check(row); err != nil {
		return err
	}

	t, err := simulation.NewTransporter(row.Name, row.Type, row.Engine, row.Zone, entities.Quantity(row.Capacity))
	if err != nil {
		return err
	}
	b.AddTransporter(t)
	return nil
}

// productionParser reads production;buffers;output;batch_size;production_time;inputs.
// The production and buffers columns are only set on the first process of a line;
// following rows with a blank production name add processes to the same line.
func (l *Loader) productionParser(b *memory.InstanceBuilder) (parse func([]string) error, finish func() error) {
	var (
		current   productionRow
		processes []*entities.ProductionProcess
		open      bool
	)
	flush := func() error {
		if !open {
			return nil
		}
		p, err := simulation.NewProduction(current.Name, current.InputBuffer, current.OutputBuffer, processes...)
		if err != nil {
			return err
		}
		b.AddProduction(p)
		processes = nil
		return nil
	}

	parse = func(record []string) error {
		if err := columns(record, 5); err != nil {
			return err
		}
		row := productionRow{Name: record[0], Output: record[2]}
		if len(record) > 5 {
			row.Inputs = record[5]
		}
		var err error
		if row.BatchSize, err = parseInt(record[3], "batch_size"); err != nil {
			return err
		}
		if row.ProductionTime, err = parseInt(record[4], "production_time"); err != nil {
			return err
		}

		if row.Name != "" {
			if err := flush(); err != nil {
				return err
			}
			if row.InputBuffer, row.OutputBuffer, err = parseBuffers(record[1]); err != nil {
				return err
			}
			current, open = row, true
		} else if !open {
			return fmt.Errorf("process for %s has no production line", row.Output)
		}
		if err := l.check(row); err != nil {
			return err
		}

		output, err := b.Resolve(row.Output)
		if err != nil {
			return err
		}
		product, ok := output.(*entities.Product)
		if !ok {
			return fmt.Errorf("%s is not a product", output.ID())
		}
		inputs, err := b.ResolvePositions(row.Inputs)
		if err != nil {
			return err
		}
		process, err := entities.NewProductionProcess("", product, inputs, entities.TimeStep(row.ProductionTime), entities.Quantity(row.BatchSize))
		if err != nil {
			return err
		}
		processes = append(processes, process)
		return nil
	}
	return parse, flush
}

// parseStock reads item;amount
func (l *Loader) parseStock(b *memory.InstanceBuilder, record []string) error {
	if err := columns(record, 2); err != nil {
		return err
	}
	item, err := b.Resolve(record[0])
	if err != nil {
		return err
	}
	amount, err := parseInt(record[1], "amount")
	if err != nil {
		return err
	}
	b.AddStock(entities.MaterialPosition{Item: item, Amount: entities.Quantity(amount)})
	return nil
}

// parseOrder reads order_nr;item;amount;income;travel_time where a blank travel
// time inherits the item's
func (l *Loader) parseOrder(b *memory.InstanceBuilder, record []string) error {
	if err := columns(record, 4); err != nil {
		return err
	}
	row := orderRow{OrderNr: record[0], Item: record[1]}
	var err error
	if row.Amount, err = parseInt(record[2], "amount"); err != nil {
		return err
	}
	if row.Income, err = decimal.NewFromString(record[3]); err != nil {
		return fmt.Errorf("invalid income: %s", record[3])
	}
	if len(record) > 4 && record[4] != "" {
		if row.TravelTime, err = parseInt(record[4], "travel_time"); err != nil {
			return err
		}
	}
	if err := l.check(row); err != nil {
		return err
	}

	item, err := b.Resolve(row.Item)
	if err != nil {
		return err
	}
	order, err := entities.NewOrder(row.OrderNr, entities.MaterialPosition{Item: item, Amount: entities.Quantity(row.Amount)}, row.Income, entities.TimeStep(row.TravelTime))
	if err != nil {
		return err
	}
	b.AddOrder(order)
	return nil
}

// Helper functions for parsing CSV records

func (l *Loader) check(row any) error {
	if err := l.validate.Struct(row); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			var messages []string
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Field(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("%s", strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}

func columns(record []string, want int) error {
	if len(record) < want {
		return fmt.Errorf("expected at least %d columns, got %d", want, len(record))
	}
	return nil
}

func parseInt(s, field string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

// parseBuffers reads "in/out"
func parseBuffers(s string) (int, int, error) {
	in, out, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid buffers: %s (expected in/out)", s)
	}
	i, err := strconv.Atoi(strings.TrimSpace(in))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid input buffer: %s", in)
	}
	o, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid output buffer: %s", out)
	}
	return i, o, nil
}

// splitList splits a transport type list on spaces, commas or parentheses
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')'
	})
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func trim(record []string) []string {
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
