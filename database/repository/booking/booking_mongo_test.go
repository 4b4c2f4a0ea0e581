package bookingRepo

import (
	"testing"
	"time"

	"washx/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStatusUpdate(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("plain transition", func(t *testing.T) {
		change := StatusChange{
			From:    models.StatusPending,
			To:      models.StatusConfirmed,
			History: models.StatusChange{From: models.StatusPending, To: models.StatusConfirmed, At: at},
		}
		filter, update := statusUpdate("b1", change)

		assert.Equal(t, bson.M{"id": "b1", "status": models.StatusPending}, filter)
		set := update["$set"].(bson.M)
		assert.Equal(t, models.StatusConfirmed, set["status"])
		assert.Equal(t, at, set["updatedAt"])
		assert.NotContains(t, set, "cancellation")
		assert.Equal(t, bson.M{"statusHistory": change.History}, update["$push"])
	})

	t.Run("cancellation recorded", func(t *testing.T) {
		c := &models.Cancellation{By: models.CancelledByCustomer, Reason: "changed my mind", At: at}
		_, update := statusUpdate("b1", StatusChange{
			From:         models.StatusConfirmed,
			To:           models.StatusCancelled,
			History:      models.StatusChange{From: models.StatusConfirmed, To: models.StatusCancelled, At: at},
			Cancellation: c,
		})
		assert.Equal(t, c, update["$set"].(bson.M)["cancellation"])
	})
}
