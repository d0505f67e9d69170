package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Save writes an instance as a directory the Loader can read back. Drivers and the
// warehouse capacity are not part of the files.
func Save(inst *simulation.Instance, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := inst.Factory()
	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{MaterialsFile, itemHeader, itemRows(materialsOf(f))},
		{ProductsFile, itemHeader, itemRows(productsOf(f))},
		{TransportersFile, []string{"name", "zone", "type", "engine", "capacity"}, transporterRows(f)},
		{ProductionsFile, []string{"production", "buffers", "output", "batch_size", "production_time", "inputs"}, productionRows(f)},
		{StockFile, []string{"item", "amount"}, stockRows(f)},
		{OrdersFile, []string{"order_nr", "item", "amount", "income", "travel_time"}, orderRows(inst)},
	}
	for _, file := range files {
		if err := writeFile(filepath.Join(dir, file.name), file.header, file.rows); err != nil {
			return err
		}
	}
	return nil
}

var itemHeader = []string{"id", "name", "zone", "transport_types", "engine", "area", "travel_time"}

func writeFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = Delimiter
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func materialsOf(f *simulation.Factory) []entities.Item {
	var items []entities.Item
	for _, m := range f.Materials() {
		items = append(items, m)
	}
	return items
}

func productsOf(f *simulation.Factory) []entities.Item {
	var items []entities.Item
	for _, p := range f.Products() {
		items = append(items, p)
	}
	return items
}

func itemRows(items []entities.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		t := item.Transport()
		rows = append(rows, []string{
			item.ID(),
			item.Name(),
			t.Zone,
			strings.Join(t.TransportTypes, ","),
			t.Engine,
			strconv.FormatInt(int64(item.Area()), 10),
			strconv.FormatInt(int64(item.TravelTime()), 10),
		})
	}
	return rows
}

func transporterRows(f *simulation.Factory) [][]string {
	var rows [][]string
	for _, t := range f.Transporters() {
		rows = append(rows, []string{t.Name(), t.Zone(), t.TransportType(), t.Engine(), strconv.FormatInt(int64(t.Capacity()), 10)})
	}
	return rows
}

func productionRows(f *simulation.Factory) [][]string {
	var rows [][]string
	for _, p := range f.Productions() {
		in, out := p.Capacity()
		for i, process := range p.Processes() {
			name, buffers := "", ""
			if i == 0 {
				name, buffers = p.Name(), fmt.Sprintf("%d/%d", in, out)
			}
			inputs := make([]string, 0, len(process.Inputs))
			for _, pos := range process.Inputs {
				inputs = append(inputs, pos.String())
			}
			rows = append(rows, []string{
				name,
				buffers,
				process.Output.ID(),
				strconv.FormatInt(int64(process.BatchSize), 10),
				strconv.FormatInt(int64(process.ProductionTime), 10),
				strings.Join(inputs, " "),
			})
		}
	}
	return rows
}

func stockRows(f *simulation.Factory) [][]string {
	var rows [][]string
	for _, pos := range f.Warehouse().Baseline() {
		rows = append(rows, []string{pos.Item.ID(), strconv.FormatInt(int64(pos.Amount), 10)})
	}
	return rows
}

func orderRows(inst *simulation.Instance) [][]string {
	var rows [][]string
	for _, o := range inst.Orders() {
		travel := ""
		if o.TravelTime() != o.Product().TravelTime() {
			travel = strconv.FormatInt(int64(o.TravelTime()), 10)
		}
		rows = append(rows, []string{
			o.OrderNr(),
			o.Product().ID(),
			strconv.FormatInt(int64(o.Position().Amount), 10),
			o.Income().String(),
			travel,
		})
	}
	return rows
}
