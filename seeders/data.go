package seeders

type categorySeed struct {
	Name        string
	Description string
}

type equipmentSeed struct {
	Name         string
	CategoryName string
	Quantity     int
	Location     string
	Description  string
}

var categoriesData = []categorySeed{
	{Name: "Projectors", Description: "Portable and ceiling mounted projectors"},
	{Name: "Cameras", Description: "Photo and video cameras"},
	{Name: "Audio", Description: "Microphones, speakers and recorders"},
	{Name: "Laptops", Description: "Loan laptops"},
	{Name: "Lab instruments", Description: "Measurement and lab equipment"},
}

var equipmentsData = []equipmentSeed{
	{Name: "Epson EB-X06", CategoryName: "Projectors", Quantity: 3, Location: "Media desk, Library", Description: "XGA, HDMI"},
	{Name: "BenQ MW560", CategoryName: "Projectors", Quantity: 2, Location: "Room B-204"},
	{Name: "Canon EOS 250D", CategoryName: "Cameras", Quantity: 4, Location: "Media desk, Library", Description: "18-55mm kit lens"},
	{Name: "Sony ZV-E10", CategoryName: "Cameras", Quantity: 2, Location: "Media lab"},
	{Name: "Shure SM58", CategoryName: "Audio", Quantity: 6, Location: "Auditorium store"},
	{Name: "Zoom H5 recorder", CategoryName: "Audio", Quantity: 3, Location: "Media lab"},
	{Name: "Dell Latitude 5440", CategoryName: "Laptops", Quantity: 10, Location: "IT service desk"},
	{Name: "Rigol DS1054Z oscilloscope", CategoryName: "Lab instruments", Quantity: 5, Location: "Electronics lab"},
	{Name: "Fluke 117 multimeter", CategoryName: "Lab instruments", Quantity: 8, Location: "Electronics lab"},
}
