package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("purchase_log")

		collection.Fields.Add(
			&core.TextField{Name: "user_id", Required: true},
			&core.TextField{Name: "event_id", Required: true},
			&core.TextField{Name: "ticket_id"},
			&core.SelectField{
				Name:      "outcome",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"success", "failure", "sold_out"},
			},
			&core.TextField{Name: "message"},
			&core.TextField{Name: "price"},
			&core.AutodateField{Name: "created", OnCreate: true},
		)

		collection.AddIndex("idx_purchase_log_user", false, "user_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("purchase_log")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
