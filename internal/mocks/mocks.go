package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"chat-api/internal/identity"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
	"chat-api/internal/typing"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateDocuments(ctx context.Context, acct identity.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *UserRepositoryMock) ApplyLoginUpdate(ctx context.Context, acct identity.Account, now time.Time) error {
	args := m.Called(ctx, acct, now)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetEmailSubscription(ctx context.Context, userID string, subscribed bool) (string, error) {
	args := m.Called(ctx, userID, subscribed)
	return args.String(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) SendDirect(ctx context.Context, appID string, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, appID, msg)
	var sent models.Message
	if val := args.Get(0); val != nil {
		sent = val.(models.Message)
	}
	return sent, args.Error(1)
}

func (m *MessageRepositoryMock) SendGroup(ctx context.Context, appID string, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, appID, msg)
	var sent models.Message
	if val := args.Get(0); val != nil {
		sent = val.(models.Message)
	}
	return sent, args.Error(1)
}

func (m *MessageRepositoryMock) DeleteForRecipient(ctx context.Context, appID, recipientID, messageID string) error {
	args := m.Called(ctx, appID, recipientID, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteForAll(ctx context.Context, appID, messageID string) error {
	args := m.Called(ctx, appID, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteForAllGroupMembers(ctx context.Context, appID, messageID string) error {
	args := m.Called(ctx, appID, messageID)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) Archive(ctx context.Context, appID, userID, recipientID string) error {
	args := m.Called(ctx, appID, userID, recipientID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) Delete(ctx context.Context, appID, userID, recipientID string) error {
	args := m.Called(ctx, appID, userID, recipientID)
	return args.Error(0)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) Create(ctx context.Context, appID string, group models.Group) (models.Group, error) {
	args := m.Called(ctx, appID, group)
	var created models.Group
	if val := args.Get(0); val != nil {
		created = val.(models.Group)
	}
	return created, args.Error(1)
}

func (m *GroupRepositoryMock) CreateWithID(ctx context.Context, appID string, group models.Group) (models.Group, error) {
	args := m.Called(ctx, appID, group)
	var created models.Group
	if val := args.Get(0); val != nil {
		created = val.(models.Group)
	}
	return created, args.Error(1)
}

func (m *GroupRepositoryMock) Update(ctx context.Context, appID, groupID string, fields map[string]any) error {
	args := m.Called(ctx, appID, groupID, fields)
	return args.Error(0)
}

func (m *GroupRepositoryMock) Join(ctx context.Context, appID, groupID, memberID string) error {
	args := m.Called(ctx, appID, groupID, memberID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) Leave(ctx context.Context, appID, groupID, memberID string) error {
	args := m.Called(ctx, appID, groupID, memberID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) SetMembers(ctx context.Context, appID, groupID string, members map[string]int) error {
	args := m.Called(ctx, appID, groupID, members)
	return args.Error(0)
}

func (m *GroupRepositoryMock) SetAttributes(ctx context.Context, appID, groupID string, attributes map[string]any) error {
	args := m.Called(ctx, appID, groupID, attributes)
	return args.Error(0)
}

type ContactRepositoryMock struct {
	mock.Mock
}

func (m *ContactRepositoryMock) CreateWithID(ctx context.Context, appID string, contact models.Contact) error {
	args := m.Called(ctx, appID, contact)
	return args.Error(0)
}

func (m *ContactRepositoryMock) Get(ctx context.Context, appID, contactID string) (map[string]any, error) {
	args := m.Called(ctx, appID, contactID)
	var doc map[string]any
	if val := args.Get(0); val != nil {
		doc = val.(map[string]any)
	}
	return doc, args.Error(1)
}

func (m *ContactRepositoryMock) ChangeFullname(ctx context.Context, appID, userID, firstname, lastname string) error {
	args := m.Called(ctx, appID, userID, firstname, lastname)
	return args.Error(0)
}

func (m *ContactRepositoryMock) DeletePhoto(ctx context.Context, appID, userID string) error {
	args := m.Called(ctx, appID, userID)
	return args.Error(0)
}

type IdentityProviderMock struct {
	mock.Mock
}

func (m *IdentityProviderMock) CreateAccount(ctx context.Context, acct identity.NewAccount) (identity.Account, error) {
	args := m.Called(ctx, acct)
	var created identity.Account
	if val := args.Get(0); val != nil {
		created = val.(identity.Account)
	}
	return created, args.Error(1)
}

func (m *IdentityProviderMock) SignInWithPassword(ctx context.Context, email, password string) (identity.Account, error) {
	args := m.Called(ctx, email, password)
	var acct identity.Account
	if val := args.Get(0); val != nil {
		acct = val.(identity.Account)
	}
	return acct, args.Error(1)
}

func (m *IdentityProviderMock) SignInWithCredential(ctx context.Context, cred identity.Credential) (identity.SignInResult, error) {
	args := m.Called(ctx, cred)
	var result identity.SignInResult
	if val := args.Get(0); val != nil {
		result = val.(identity.SignInResult)
	}
	return result, args.Error(1)
}

func (m *IdentityProviderMock) RevokeTokens(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *IdentityProviderMock) GetAccount(ctx context.Context, uid string) (identity.Account, error) {
	args := m.Called(ctx, uid)
	var acct identity.Account
	if val := args.Get(0); val != nil {
		acct = val.(identity.Account)
	}
	return acct, args.Error(1)
}

func (m *IdentityProviderMock) IssueToken(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func (m *IdentityProviderMock) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type TypingStoreMock struct {
	mock.Mock
}

func (m *TypingStoreMock) Set(ctx context.Context, appID string, event models.TypingEvent) error {
	args := m.Called(ctx, appID, event)
	return args.Error(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.ContactRepository = (*ContactRepositoryMock)(nil)
var _ identity.Provider = (*IdentityProviderMock)(nil)
var _ typing.Store = (*TypingStoreMock)(nil)
