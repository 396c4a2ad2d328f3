package mapper_test

import "github.com/biyonik/stormquery/pkg/mapper"

// Tipli hidrasyon testlerinde kullanılan örnek modeller.

type customer struct {
	ID     int64
	Name   string
	Orders []*order
}

func (c *customer) SetField(p string, v any) error {
	switch p {
	case "id":
		c.ID = mapper.Int64(v)
	case "name":
		c.Name = mapper.String(v)
	default:
		return mapper.UnknownProperty(c, p)
	}
	return nil
}

func (c *customer) SetOne(p string, _ mapper.Entity) error { return mapper.UnknownProperty(c, p) }

func (c *customer) AddMany(p string, e mapper.Entity) error {
	if p != "orders" {
		return mapper.UnknownProperty(c, p)
	}
	c.Orders = append(c.Orders, e.(*order))
	return nil
}

type order struct {
	ID      int64
	Shipper *shipper
	Details []*detail
}

func (o *order) SetField(p string, v any) error {
	if p != "id" {
		return mapper.UnknownProperty(o, p)
	}
	o.ID = mapper.Int64(v)
	return nil
}

func (o *order) SetOne(p string, e mapper.Entity) error {
	if p != "shipper" {
		return mapper.UnknownProperty(o, p)
	}
	o.Shipper = e.(*shipper)
	return nil
}

func (o *order) AddMany(p string, e mapper.Entity) error {
	if p != "details" {
		return mapper.UnknownProperty(o, p)
	}
	o.Details = append(o.Details, e.(*detail))
	return nil
}

type shipper struct {
	ID   int64
	Name string
}

func (s *shipper) SetField(p string, v any) error {
	switch p {
	case "id":
		s.ID = mapper.Int64(v)
	case "name":
		s.Name = mapper.String(v)
	default:
		return mapper.UnknownProperty(s, p)
	}
	return nil
}

func (s *shipper) SetOne(p string, _ mapper.Entity) error  { return mapper.UnknownProperty(s, p) }
func (s *shipper) AddMany(p string, _ mapper.Entity) error { return mapper.UnknownProperty(s, p) }

type detail struct {
	ID       int64
	Quantity int64
	Product  *product
}

func (d *detail) SetField(p string, v any) error {
	switch p {
	case "id":
		d.ID = mapper.Int64(v)
	case "quantity":
		d.Quantity = mapper.Int64(v)
	default:
		return mapper.UnknownProperty(d, p)
	}
	return nil
}

func (d *detail) SetOne(p string, e mapper.Entity) error {
	if p != "product" {
		return mapper.UnknownProperty(d, p)
	}
	d.Product = e.(*product)
	return nil
}

func (d *detail) AddMany(p string, _ mapper.Entity) error { return mapper.UnknownProperty(d, p) }

type product struct {
	ID    int64
	Name  string
	Price float64
	Tags  []*tag
}

func (pr *product) SetField(p string, v any) error {
	switch p {
	case "id":
		pr.ID = mapper.Int64(v)
	case "name":
		pr.Name = mapper.String(v)
	case "price":
		pr.Price = mapper.Float64(v)
	default:
		return mapper.UnknownProperty(pr, p)
	}
	return nil
}

func (pr *product) SetOne(p string, _ mapper.Entity) error { return mapper.UnknownProperty(pr, p) }

func (pr *product) AddMany(p string, e mapper.Entity) error {
	if p != "tags" {
		return mapper.UnknownProperty(pr, p)
	}
	pr.Tags = append(pr.Tags, e.(*tag))
	return nil
}

type tag struct {
	ID   int64
	Name string
}

func (t *tag) SetField(p string, v any) error {
	switch p {
	case "id":
		t.ID = mapper.Int64(v)
	case "name":
		t.Name = mapper.String(v)
	default:
		return mapper.UnknownProperty(t, p)
	}
	return nil
}

func (t *tag) SetOne(p string, _ mapper.Entity) error  { return mapper.UnknownProperty(t, p) }
func (t *tag) AddMany(p string, _ mapper.Entity) error { return mapper.UnknownProperty(t, p) }
