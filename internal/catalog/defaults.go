package catalog

// Item types referenced by the built-in tables.
const (
	ItemCoal         = "COAL"
	ItemCharcoal     = "CHARCOAL"
	ItemCoalBlock    = "COAL_BLOCK"
	ItemLavaBucket   = "LAVA_BUCKET"
	ItemBlazeRod     = "BLAZE_ROD"
	ItemPackedIce    = "PACKED_ICE"
	ItemRawIron      = "RAW_IRON"
	ItemRawGold      = "RAW_GOLD"
	ItemRawCopper    = "RAW_COPPER"
	ItemIronIngot    = "IRON_INGOT"
	ItemGoldIngot    = "GOLD_INGOT"
	ItemCopperIngot  = "COPPER_INGOT"
	ItemSteelIngot   = "STEEL_INGOT"
	ItemSand         = "SAND"
	ItemGlass        = "GLASS"
	ArchetypeStone   = "STONE_FURNACE"
	ArchetypeIron    = "IRON_FURNACE"
	ArchetypeBlast   = "BLAST_FURNACE"
	CategorySmelting = "smelting"
	CategoryRefining = "refining"
	CategoryAlloying = "alloying"
)

func ingredient(itemType string, amount int) Ingredient {
	return Ingredient{Item: Descriptor{Type: itemType}, Amount: amount}
}

// DefaultDefinitions is the built-in content used when no catalog directory is
// configured.
func DefaultDefinitions() Definitions {
	return Definitions{
		Archetypes: []Archetype{
			{
				Name: ArchetypeStone, DisplayName: "Stone Furnace",
				MinTemperature: 50, MaxTemperature: 400, ExplosionTemperature: 450,
				InputSlots: 2, FuelSlots: 1, OutputSlots: 2,
				HeatingRate: 2, CoolingRate: 0.5,
				OverheatThreshold: 100, ExplosionCountdown: 100, CriticalCountdown: 20,
			},
			{
				Name: ArchetypeIron, DisplayName: "Iron Furnace",
				MinTemperature: 100, MaxTemperature: 800, ExplosionTemperature: 900,
				InputSlots: 3, FuelSlots: 2, OutputSlots: 3,
				HeatingRate: 4, CoolingRate: 1,
				OverheatThreshold: 160, ExplosionCountdown: 120, CriticalCountdown: 20,
			},
			{
				Name: ArchetypeBlast, DisplayName: "Blast Furnace",
				MinTemperature: 200, MaxTemperature: 1500, ExplosionTemperature: 1700,
				InputSlots: 4, FuelSlots: 2, OutputSlots: 4,
				HeatingRate: 8, CoolingRate: 2,
				OverheatThreshold: 200, ExplosionCountdown: 160, CriticalCountdown: 30,
			},
		},
		MaterialFuels: []Fuel{
			{Item: Descriptor{Type: ItemCoal}, BurnTime: 1600, Temperature: 200},
			{Item: Descriptor{Type: ItemCharcoal}, BurnTime: 1600, Temperature: 180},
			{Item: Descriptor{Type: ItemCoalBlock}, BurnTime: 16000, Temperature: 350},
			{Item: Descriptor{Type: ItemBlazeRod}, BurnTime: 2400, Temperature: 800},
			{Item: Descriptor{Type: ItemLavaBucket}, BurnTime: 20000, Temperature: 1000},
		},
		CustomFuels: []Fuel{
			{ID: "refined_coal", Item: Descriptor{Type: ItemCoal, Variant: "refined"}, BurnTime: 3200, Temperature: 450},
			{ID: "cryo_cell", Item: Descriptor{Type: ItemPackedIce, Variant: "cryo"}, BurnTime: 1200, Temperature: -40},
		},
		Recipes: []Recipe{
			{
				ID: "raw_iron", Name: "Iron Ingot", Category: CategorySmelting,
				Inputs:              []Ingredient{ingredient(ItemRawIron, 1)},
				Outputs:             []Ingredient{ingredient(ItemIronIngot, 1)},
				RequiredTemperature: 300, CookTime: 200,
			},
			{
				ID: "raw_gold", Name: "Gold Ingot", Category: CategorySmelting,
				Inputs:              []Ingredient{ingredient(ItemRawGold, 1)},
				Outputs:             []Ingredient{ingredient(ItemGoldIngot, 1)},
				RequiredTemperature: 250, CookTime: 200,
			},
			{
				ID: "raw_copper", Name: "Copper Ingot", Category: CategorySmelting,
				Inputs:              []Ingredient{ingredient(ItemRawCopper, 1)},
				Outputs:             []Ingredient{ingredient(ItemCopperIngot, 1)},
				RequiredTemperature: 280, CookTime: 200,
			},
			{
				ID: "glass", Name: "Glass", Category: CategorySmelting,
				Inputs:              []Ingredient{ingredient(ItemSand, 1)},
				Outputs:             []Ingredient{ingredient(ItemGlass, 1)},
				RequiredTemperature: 150, CookTime: 100,
			},
			{
				ID: "refined_copper", Name: "Refined Copper", Category: CategoryRefining,
				Inputs:              []Ingredient{ingredient(ItemCopperIngot, 3), ingredient(ItemCoal, 1)},
				Outputs:             []Ingredient{ingredient(ItemCopperIngot, 2), ingredient(ItemCharcoal, 1)},
				RequiredTemperature: 600, CookTime: 600,
			},
			{
				ID: "steel", Name: "Steel Ingot", Category: CategoryAlloying,
				Inputs:              []Ingredient{ingredient(ItemIronIngot, 2), ingredient(ItemCoal, 1)},
				Outputs:             []Ingredient{ingredient(ItemSteelIngot, 1)},
				RequiredTemperature: 900, CookTime: 800,
			},
		},
	}
}

// Defaults builds catalogs from DefaultDefinitions.
func Defaults() *Catalogs {
	c, err := Build(DefaultDefinitions())
	if err != nil {
		panic("catalog: invalid built-in definitions: " + err.Error())
	}
	return c
}
