// Package query builds where clauses for the WSAPI query verb.
//
//	q := query.Where("Name", "contains", "login page").
//	    And(query.Where("State", "!=", "Closed")).
//	    Or(query.Where("Priority", "=", "High Attention"))
//	q.String() // (((Name contains "login page") AND (State != Closed)) OR (Priority = "High Attention"))
package query
