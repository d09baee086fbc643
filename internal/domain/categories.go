package domain

// TopCategoryOther is the fallback top category for rows where the crawler
// could not resolve a level-1 category.
const TopCategoryOther = "Otros"

// TopCategories is the fixed display order for category breakdowns.
// Labels must match the level-1 names of the upstream category tree verbatim
// (they flow unmodified into the published artifacts). Membership and order
// are configuration, not a type hierarchy.
var TopCategories = []string{
	"Almacén",
	"Bebidas",
	"Congelados",
	"Lácteos",
	"Quesos y Fiambres",
	"Frutas y Verduras",
	"Carnes",
	"Rotiseria",
	"Panaderia y Pasteleria",
	"Limpieza",
	"Perfumería",
	"Mascotas",
	"Hogar y textil",
	"Mundo Bebe",
	"Electro",
	"Tiempo Libre",
}
