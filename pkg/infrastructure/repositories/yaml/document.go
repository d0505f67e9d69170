package yaml

import (
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Document is the on-disk layout of a single-file instance
type Document struct {
	Name         string            `yaml:"name"`
	Warehouse    WarehouseSpec     `yaml:"warehouse"`
	Drivers      []DriverSpec      `yaml:"drivers,omitempty"`
	Materials    []ItemSpec        `yaml:"materials"`
	Products     []ItemSpec        `yaml:"products"`
	Productions  []ProductionSpec  `yaml:"productions"`
	Transporters []TransporterSpec `yaml:"transporters,omitempty"`
	Orders       []OrderSpec       `yaml:"orders"`
}

type WarehouseSpec struct {
	// Capacity is the usable area; omit it to take the loader default, -1 is unlimited
	Capacity *int64         `yaml:"capacity,omitempty"`
	Stock    []PositionSpec `yaml:"stock,omitempty"`
}

type DriverSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

type ItemSpec struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name,omitempty"`
	Zone           string   `yaml:"zone,omitempty"`
	TransportTypes []string `yaml:"transport_types"`
	Engine         string   `yaml:"engine,omitempty"`
	Area           int64    `yaml:"area"`
	TravelTime     int64    `yaml:"travel_time"`
}

type PositionSpec struct {
	Item   string `yaml:"item"`
	Amount int64  `yaml:"amount"`
}

type ProcessSpec struct {
	ID             string         `yaml:"id,omitempty"`
	Output         string         `yaml:"output"`
	BatchSize      int64          `yaml:"batch_size"`
	ProductionTime int64          `yaml:"production_time"`
	Inputs         []PositionSpec `yaml:"inputs,omitempty"`
}

type ProductionSpec struct {
	Name         string        `yaml:"name"`
	InputBuffer  int           `yaml:"input_buffer"`
	OutputBuffer int           `yaml:"output_buffer"`
	Processes    []ProcessSpec `yaml:"processes"`
}

type TransporterSpec struct {
	Name     string `yaml:"name"`
	Zone     string `yaml:"zone,omitempty"`
	Type     string `yaml:"type"`
	Engine   string `yaml:"engine"`
	Capacity int64  `yaml:"capacity"`
}

type OrderSpec struct {
	OrderNr    string `yaml:"order_nr"`
	Item       string `yaml:"item"`
	Amount     int64  `yaml:"amount"`
	Income     string `yaml:"income"`
	TravelTime int64  `yaml:"travel_time,omitempty"`
}

// FromInstance describes an instance as a document
func FromInstance(inst *simulation.Instance) *Document {
	f := inst.Factory()
	capacity := int64(f.Warehouse().Capacity())
	doc := &Document{
		Name:      f.Name(),
		Warehouse: WarehouseSpec{Capacity: &capacity},
	}
	for _, pos := range f.Warehouse().Baseline() {
		doc.Warehouse.Stock = append(doc.Warehouse.Stock, positionSpec(pos))
	}
	for _, d := range f.Drivers() {
		doc.Drivers = append(doc.Drivers, DriverSpec{ID: d.ID(), Name: d.Name()})
	}
	for _, m := range f.Materials() {
		doc.Materials = append(doc.Materials, itemSpec(m))
	}
	for _, p := range f.Products() {
		doc.Products = append(doc.Products, itemSpec(p))
	}
	for _, p := range f.Productions() {
		in, out := p.Capacity()
		spec := ProductionSpec{Name: p.Name(), InputBuffer: in, OutputBuffer: out}
		for _, process := range p.Processes() {
			ps := ProcessSpec{
				ID:             process.ID,
				Output:         process.Output.ID(),
				BatchSize:      int64(process.BatchSize),
				ProductionTime: int64(process.ProductionTime),
			}
			for _, pos := range process.Inputs {
				ps.Inputs = append(ps.Inputs, positionSpec(pos))
			}
			spec.Processes = append(spec.Processes, ps)
		}
		doc.Productions = append(doc.Productions, spec)
	}
	for _, t := range f.Transporters() {
		doc.Transporters = append(doc.Transporters, TransporterSpec{
			Name:     t.Name(),
			Zone:     t.Zone(),
			Type:     t.TransportType(),
			Engine:   t.Engine(),
			Capacity: int64(t.Capacity()),
		})
	}
	for _, o := range inst.Orders() {
		spec := OrderSpec{
			OrderNr: o.OrderNr(),
			Item:    o.Product().ID(),
			Amount:  int64(o.Position().Amount),
			Income:  o.Income().String(),
		}
		if o.TravelTime() != o.Product().TravelTime() {
			spec.TravelTime = int64(o.TravelTime())
		}
		doc.Orders = append(doc.Orders, spec)
	}
	return doc
}

func itemSpec(item entities.Item) ItemSpec {
	t := item.Transport()
	return ItemSpec{
		ID:             item.ID(),
		Name:           item.Name(),
		Zone:           t.Zone,
		TransportTypes: t.TransportTypes,
		Engine:         t.Engine,
		Area:           int64(item.Area()),
		TravelTime:     int64(item.TravelTime()),
	}
}

func positionSpec(pos entities.MaterialPosition) PositionSpec {
	return PositionSpec{Item: pos.Item.ID(), Amount: int64(pos.Amount)}
}
