package catalog

import "fmt"

// StaticProvider serves a fixed list of services. It is safe for concurrent
// use because nothing mutates it after construction.
type StaticProvider struct {
	items []ServiceItem
	index map[string]int
}

// NewStaticProvider validates and indexes items. Order is preserved for All.
func NewStaticProvider(items []ServiceItem) (*StaticProvider, error) {
	p := &StaticProvider{
		items: make([]ServiceItem, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(p.items, items)
	for i, item := range p.items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyID, i)
		}
		if _, exists := p.index[item.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		p.index[item.ID] = i
	}
	return p, nil
}

// MustStaticProvider is NewStaticProvider for hard-coded menus.
func MustStaticProvider(items []ServiceItem) *StaticProvider {
	p, err := NewStaticProvider(items)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup returns the service with the given id.
func (p *StaticProvider) Lookup(id string) (ServiceItem, bool) {
	i, ok := p.index[id]
	if !ok {
		return ServiceItem{}, false
	}
	return p.items[i], true
}

// All returns a copy of every service in menu order.
func (p *StaticProvider) All() []ServiceItem {
	out := make([]ServiceItem, len(p.items))
	copy(out, p.items)
	return out
}

// Default returns the spa's built-in massage menu.
func Default() *StaticProvider {
	return MustStaticProvider(defaultItems)
}

var defaultItems = []ServiceItem{
	{
		ID:          "swedish",
		Name:        "นวดสวีดิช",
		Description: "การนวดผ่อนคลายด้วยแรงกดอย่างอ่อนโยน ใช้เทคนิคการลูบคลึงยาว บีบนวดกล้ามเนื้อ และการเคลื่อนไหวแบบวงกลมเพื่อช่วยให้คุณผ่อนคลายและมีพลังงาน",
		Duration:    "60-90 นาที",
		Price:       "฿2,400-฿3,600",
		PriceRange:  3000,
		Icon:        "sparkles",
		Category:    CategoryRelaxation,
	},
	{
		ID:          "deep-tissue",
		Name:        "นวดเนื้อเยื่อชั้นลึก",
		Description: "เจาะลึกถึงปมกล้ามเนื้อและความตึงเครียดเรื้อรัง ใช้แรงกดช้าและแรงมากกว่าเพื่อเข้าถึงชั้นกล้ามเนื้อและเนื้อเยื่อเกี่ยวพันชั้นลึก",
		Duration:    "60-90 นาที",
		Price:       "฿2,700-฿3,900",
		PriceRange:  3300,
		Icon:        "flame",
		Category:    CategoryTherapy,
	},
	{
		ID:          "hot-stone",
		Name:        "นวดด้วยหินร้อน",
		Description: "ใช้หินที่ถูกอุ่นวางบนจุดต่างๆ ของร่างกายเพื่อคลายกล้ามเนื้อที่ตึงและปรับสมดุลพลังงาน",
		Duration:    "75-90 นาที",
		Price:       "฿3,000-฿4,200",
		PriceRange:  3600,
		Icon:        "flame",
		Category:    CategoryTherapy,
	},
	{
		ID:          "aromatherapy",
		Name:        "นวดอโรมาเธอราพี",
		Description: "ผสมผสานการนวดอย่างอ่อนโยนกับน้ำมันหอมระเหยเพื่อเสริมสร้างการผ่อนคลายและส่งเสริมการรักษาทางอารมณ์และความเป็นอยู่ที่ดี",
		Duration:    "60-90 นาที",
		Price:       "฿2,550-฿3,750",
		PriceRange:  3150,
		Icon:        "droplets",
		Category:    CategoryRelaxation,
	},
	{
		ID:          "sports",
		Name:        "นวดสปอร์ต",
		Description: "ออกแบบมาสำหรับนักกีฬาและผู้ที่ออกกำลังกายเป็นประจำ มุ่งเน้นการป้องกันและรักษาการบาดเจ็บพร้อมเพิ่มประสิทธิภาพการกีฬา",
		Duration:    "60-75 นาที",
		Price:       "฿2,850-฿4,050",
		PriceRange:  3450,
		Icon:        "dumbbell",
		Category:    CategoryTherapy,
	},
	{
		ID:          "prenatal",
		Name:        "นวดสำหรับคุณแม่ตั้งครรภ์",
		Description: "การนวดที่ปรับเปลี่ยนเป็นพิเศษสำหรับคุณแม่ตั้งครรภ์เพื่อบรรเทาอาการไม่สบายจากการตั้งครรภ์และลดความเครียดอย่างปลอดภัย",
		Duration:    "60 นาที",
		Price:       "฿2,700-฿3,600",
		PriceRange:  3150,
		Icon:        "baby",
		Category:    CategorySpecial,
	},
	{
		ID:          "reflexology",
		Name:        "นวดกดจุด (รีเฟล็กซอโลยี)",
		Description: "กดจุดเฉพาะที่เท้า มือ และหูเพื่อส่งเสริมการรักษาและการผ่อนคลายทั่วร่างกาย",
		Duration:    "45-60 นาที",
		Price:       "฿2,100-฿3,000",
		PriceRange:  2550,
		Icon:        "footprints",
		Category:    CategorySpecial,
	},
	{
		ID:          "thai",
		Name:        "นวดไทย",
		Description: "ระบบการรักษาโบราณที่ผสมผสานการกดจุด หลักการอายุรเวทของอินเดีย และท่าโยคะที่ช่วยเหลือเพื่อการผ่อนคลายอย่างลึกซึ้ง",
		Duration:    "90-120 นาที",
		Price:       "฿3,300-฿4,800",
		PriceRange:  4050,
		Icon:        "flower",
		Category:    CategorySpecial,
	},
	{
		ID:          "couples",
		Name:        "นวดคู่รัก",
		Description: "แบ่งปันประสบการณ์การผ่อนคลายกับคู่ของคุณในห้องส่วนตัวพร้อมนักนวดสองคนทำงานพร้อมกัน",
		Duration:    "60-90 นาที",
		Price:       "฿4,800-฿7,200",
		PriceRange:  6000,
		Icon:        "heart",
		Category:    CategorySpecial,
	},
	{
		ID:          "chair",
		Name:        "นวดนั่ง",
		Description: "การนวดแบบนั่งรวดเร็วและสะดวก เน้นที่หลัง ไหล่ คอ และแขน - เหมาะสำหรับการคลายเครียดขณะเดินทาง",
		Duration:    "15-30 นาที",
		Price:       "฿900-฿1,500",
		PriceRange:  1200,
		Icon:        "armchair",
		Category:    CategoryExpress,
	},
}
