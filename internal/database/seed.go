package database

// DefaultRoles is the startup roster seeded into the roles table. Seeding is
// additive only: roles already present keep their occupancy, and roles
// removed from this list are never deleted from a live database.
var DefaultRoles = []RoleSeed{
	// Genshin Impact
	{Name: "Джинн", Region: RegionMondstadt},
	{Name: "Дилюк", Region: RegionMondstadt},
	{Name: "Кэйа", Region: RegionMondstadt},
	{Name: "Венти", Region: RegionMondstadt},
	{Name: "Альбедо", Region: RegionMondstadt},
	{Name: "Эола", Region: RegionMondstadt},
	{Name: "Чжун Ли", Region: RegionLiyue},
	{Name: "Син Цю", Region: RegionLiyue},
	{Name: "Ху Тао", Region: RegionLiyue},
	{Name: "Гань Юй", Region: RegionLiyue},
	{Name: "Сяо", Region: RegionLiyue},
	{Name: "Райдэн", Region: RegionInazuma},
	{Name: "Аято", Region: RegionInazuma},
	{Name: "Аяка", Region: RegionInazuma},
	{Name: "Ёимия", Region: RegionInazuma},
	{Name: "Нахида", Region: RegionSumeru},
	{Name: "Аль-Хайтам", Region: RegionSumeru},
	{Name: "Тигнари", Region: RegionSumeru},
	{Name: "Фурина", Region: RegionFontaine},
	{Name: "Нёвиллет", Region: RegionFontaine},
	{Name: "Линетт", Region: RegionFontaine},
	{Name: "Мавуика", Region: RegionNatlan},
	{Name: "Ситлали", Region: RegionNatlan},
	{Name: "Тарталья", Region: RegionSnezhnaya},
	{Name: "Панталоне", Region: RegionSnezhnaya},
	{Name: "Дайнслейф", Region: RegionKhaenriah},
	{Name: "Странник", Region: RegionGenshinOther},

	// Honkai: Star Rail
	{Name: "Химеко", Region: RegionHSRStar},
	{Name: "Вельт", Region: RegionHSRStar},
	{Name: "Дань Хэн", Region: RegionHSRStar},
	{Name: "Март 7", Region: RegionHSRStar},
	{Name: "Герта", Region: RegionHSRGerta},
	{Name: "Аста", Region: RegionHSRGerta},
	{Name: "Зеле", Region: RegionHSRYarilo},
	{Name: "Бронья", Region: RegionHSRYarilo},
	{Name: "Клара", Region: RegionHSRYarilo},
	{Name: "Цзин Юань", Region: RegionHSRLofu},
	{Name: "Блэйд", Region: RegionHSRLofu},
	{Name: "Фу Сюань", Region: RegionHSRLofu},
	{Name: "Авантюрин", Region: RegionHSRPenacony},
	{Name: "Робин", Region: RegionHSRPenacony},
	{Name: "Аглая", Region: RegionHSRAmphoreus},
	{Name: "Кафка", Region: RegionHSRHunter},
	{Name: "Серебряный Волк", Region: RegionHSRHunter},
	{Name: "Топаз", Region: RegionHSRKMM},
	{Name: "Яшма", Region: RegionHSRKMM},
	{Name: "Акивили", Region: RegionHSREons},
	{Name: "Нанук", Region: RegionHSRLords},
	{Name: "Доктор Рацио", Region: RegionHSROther},
}
