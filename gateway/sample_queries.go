// Copyright 2025 SFGateway
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gateway

// sampleQueries is the fixed, ordered catalog served by the sample-queries
// endpoint. No credentials are needed to list it.
var sampleQueries = []SampleQuery{
	{
		Name:        "Users",
		Query:       "SELECT Id, Name, Email, Username FROM User LIMIT 5",
		Description: "Lists users registered in the org",
	},
	{
		Name:        "Accounts",
		Query:       "SELECT Id, Name, Type, Industry FROM Account LIMIT 10",
		Description: "Lists accounts (companies) with their type and industry",
	},
	{
		Name:        "Opportunities",
		Query:       "SELECT Id, Name, StageName, Amount, CloseDate FROM Opportunity WHERE Amount > 0 LIMIT 10",
		Description: "Lists open opportunities with a positive amount",
	},
	{
		Name:        "Organization",
		Query:       "SELECT Id, Name, OrganizationType, InstanceName FROM Organization",
		Description: "Shows basic information about the org itself",
	},
}

// SampleQueries returns the catalog in its fixed order
func SampleQueries() []SampleQuery {
	out := make([]SampleQuery, len(sampleQueries))
	copy(out, sampleQueries)
	return out
}
