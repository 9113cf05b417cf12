package infrastructure

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockDbAdapter a goComMgo.Storage without a database, for the status tests
type MockDbAdapter struct {
	PingError bool
	started   bool
}

func NewMockDbAdapter() *MockDbAdapter {
	return &MockDbAdapter{}
}

func (c *MockDbAdapter) EnablePingError() {
	c.PingError = true
}

func (c *MockDbAdapter) DisablePingError() {
	c.PingError = false
}

func (c *MockDbAdapter) Close() error {
	c.started = false
	return nil
}

func (c *MockDbAdapter) Ping() error {
	if c.PingError {
		return errors.New("Mock Ping Error")
	}
	return nil
}

func (c *MockDbAdapter) PingOK() bool {
	return !c.PingError
}

func (c *MockDbAdapter) Collection(collectionName string, databaseName ...string) *mongo.Collection {
	return nil
}

func (c *MockDbAdapter) WaitUntilStarted() {}

func (c *MockDbAdapter) Start() {
	c.started = true
}

// Started true between Start and Close
func (c *MockDbAdapter) Started() bool {
	return c.started
}
