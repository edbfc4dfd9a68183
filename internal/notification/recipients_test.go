package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"caseflow/internal/accounts"
	"caseflow/internal/notification/mocks"
	"caseflow/internal/zgw/models"
)

func role(description models.RoleDescription, party models.PartyType, bsn string) models.Role {
	r := models.Role{Description: description, PartyType: party}
	if bsn != "" {
		r.BetrokkeneIdentificatie = &models.PartyIdentification{BSN: bsn}
	}
	return r
}

func TestInitiatorBSNs(t *testing.T) {
	roles := []models.Role{
		role(models.RoleInitiator, models.PartyNaturalPerson, "999888777"),
		role(models.RoleMedeInitiator, models.PartyNaturalPerson, "111222333"),
		role(models.RoleInitiator, models.PartyNaturalPerson, "111222333"),
		role(models.RoleBehandelaar, models.PartyNaturalPerson, "444555666"),
		role(models.RoleInitiator, models.PartyNonNaturalPerson, "777777777"),
		role(models.RoleInitiator, models.PartyNaturalPerson, ""),
		{Description: models.RoleInitiator, PartyType: models.PartyNaturalPerson},
	}
	assert.Equal(t, []string{"111222333", "999888777"}, InitiatorBSNs(roles))
	assert.Empty(t, InitiatorBSNs(nil))
}

func TestRecipientsResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("asks the directory once per distinct bsn", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockUserDirectory(ctrl)
		user := &accounts.User{ID: uuid.New(), BSN: "111222333", Email: "jan@gemeente.test", EmailVerified: true, IsActive: true}
		directory.EXPECT().
			FindNotifiableByBSNs(gomock.Any(), []string{"111222333"}).
			Return([]*accounts.User{user, user}, nil)

		users, err := NewRecipients(directory).Resolve(ctx, []models.Role{
			role(models.RoleInitiator, models.PartyNaturalPerson, "111222333"),
			role(models.RoleMedeInitiator, models.PartyNaturalPerson, "111222333"),
		})
		require.NoError(t, err)
		assert.Equal(t, []*accounts.User{user}, users)
	})

	t.Run("no initiators skips the directory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockUserDirectory(ctrl)

		users, err := NewRecipients(directory).Resolve(ctx, []models.Role{
			role(models.RoleBehandelaar, models.PartyNaturalPerson, "111222333"),
		})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("drops users the directory should not have returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockUserDirectory(ctrl)
		directory.EXPECT().FindNotifiableByBSNs(gomock.Any(), gomock.Any()).Return([]*accounts.User{
			nil,
			{ID: uuid.New(), BSN: "111222333", Email: "jan@example.org", EmailVerified: true, IsActive: true},
		}, nil)

		users, err := NewRecipients(directory).Resolve(ctx, []models.Role{
			role(models.RoleInitiator, models.PartyNaturalPerson, "111222333"),
		})
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("directory errors are returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockUserDirectory(ctrl)
		directory.EXPECT().FindNotifiableByBSNs(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := NewRecipients(directory).Resolve(ctx, []models.Role{
			role(models.RoleInitiator, models.PartyNaturalPerson, "111222333"),
		})
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "1 maart 2024", FormatDate(models.NewDate(2024, 3, 1)))
	assert.Equal(t, "31 december 2023", FormatDate(models.NewDate(2023, 12, 31)))
	assert.Empty(t, FormatDate(models.Date{}))
}

func TestDeliveryOutcome(t *testing.T) {
	assert.Equal(t, Outcome{Kind: KindDelivered, Delivered: 1, Duplicates: 1, Failed: 1}, deliveryOutcome(1, 1, 1))
	assert.Equal(t, ReasonDuplicate, deliveryOutcome(0, 2, 0).Reason)
	assert.Equal(t, ReasonDeliveryFailed, deliveryOutcome(0, 1, 1).Reason)
	assert.Equal(t, "delivered(2)", deliveryOutcome(2, 0, 0).String())
	assert.Equal(t, "ignored(duplicate)", deliveryOutcome(0, 1, 0).String())
}
