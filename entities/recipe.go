package entities

type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(32);not null" json:"name"`
	Slug string `gorm:"type:varchar(32);uniqueIndex;not null" json:"slug"`

	Timestamp
}

type Ingredient struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"type:varchar(128);index;uniqueIndex:idx_ingredient_name_unit;not null" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(64);uniqueIndex:idx_ingredient_name_unit;not null" json:"measurement_unit"`

	Timestamp
}

type Recipe struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID    uint   `gorm:"index;not null" json:"author_id"`
	Name        string `gorm:"type:varchar(256);not null" json:"name"`
	Text        string `gorm:"type:text;not null" json:"text"`
	CookingTime int    `gorm:"not null" json:"cooking_time"`
	ImageURL    string `json:"image,omitempty"`

	Author            *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	RecipeIngredients []*RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     uint `gorm:"uniqueIndex:idx_recipe_ingredient;not null" json:"recipe_id"`
	IngredientID uint `gorm:"uniqueIndex:idx_recipe_ingredient;not null" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type UserFavourite struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint `gorm:"uniqueIndex:idx_favourite_user_recipe;not null" json:"user_id"`
	RecipeID uint `gorm:"uniqueIndex:idx_favourite_user_recipe;not null" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type UserShoppingCart struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint `gorm:"uniqueIndex:idx_cart_user_recipe;not null" json:"user_id"`
	RecipeID uint `gorm:"uniqueIndex:idx_cart_user_recipe;not null" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Timestamp
}
